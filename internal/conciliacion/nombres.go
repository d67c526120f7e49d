// Package conciliacion implementa la conciliación de registros de la
// cerradura física contra usuarios y reservas: identificación del
// usuario por nombre normalizado y clasificación del acceso según la
// ventana de tolerancia. Lógica pura, sin efectos secundarios.
package conciliacion

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// quitaDiacriticos descompone en NFD, elimina las marcas combinantes y
// recompone, de modo que "Pérez" y "perez" normalicen igual.
var quitaDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizar lleva un nombre a forma canónica de comparación:
// minúsculas, sin tildes, sin espacios sobrantes.
func Normalizar(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(quitaDiacriticos, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// IdentificarUsuario mapea el nombre crudo del registro de acceso a un
// usuario del directorio. Orden de coincidencia, gana la primera:
//
//  1. alias del sistema de acceso
//  2. "nombre apellido"
//  3. "apellido nombre" (orden invertido)
//  4. nombre solo o apellido solo
//
// Devuelve nil si ningún nivel coincide.
func IdentificarUsuario(nombreCrudo string, usuarios []model.Usuario) *model.Usuario {
	objetivo := Normalizar(nombreCrudo)
	if objetivo == "" {
		return nil
	}

	for i := range usuarios {
		u := &usuarios[i]
		if u.NombreSistemaAcceso != nil && Normalizar(*u.NombreSistemaAcceso) == objetivo {
			return u
		}
	}
	for i := range usuarios {
		u := &usuarios[i]
		if Normalizar(u.Nombre+" "+u.Apellido) == objetivo {
			return u
		}
	}
	for i := range usuarios {
		u := &usuarios[i]
		if Normalizar(u.Apellido+" "+u.Nombre) == objetivo {
			return u
		}
	}
	for i := range usuarios {
		u := &usuarios[i]
		if Normalizar(u.Nombre) == objetivo || Normalizar(u.Apellido) == objetivo {
			return u
		}
	}

	return nil
}

// NombresCompatibles comparación laxa usada por el webhook de pagos:
// coincidencia por subcadena bidireccional, insensible a mayúsculas y
// tildes. Contrato externo, no cambiar sin coordinar con finanzas.
func NombresCompatibles(a, b string) bool {
	na, nb := Normalizar(a), Normalizar(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
