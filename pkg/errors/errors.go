package errors

import "errors"

// ErrOptimisticLock conflicto de concurrencia: el registro fue modificado
// (o su estado cambió) entre la lectura y la escritura condicionada.
var ErrOptimisticLock = errors.New("el registro fue modificado por otra operación, refresque e intente de nuevo")
