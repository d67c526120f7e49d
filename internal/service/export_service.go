package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// ErrExportGenerateFail la generación del archivo Excel falló
var ErrExportGenerateFail = errors.New("error generando el archivo de exportación")

// ExportService exportación a Excel para facturación y auditoría
type ExportService interface {
	// ExportarReservas genera un .xlsx con todas las reservas del rango,
	// incluidas las PENALIZADA (facturación las cobra igual).
	ExportarReservas(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, string, error)
	// ExportarAccesos genera un .xlsx con el log de accesos conciliado
	ExportarAccesos(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService crea el ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportarReservas(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, string, error) {
	reservas, err := s.repo.Reserva.Listar(ctx, desde, hasta, "", "")
	if err != nil {
		s.logger.Error("lectura de reservas para exportación fallida", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reservas"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 9)
	f.SetColWidth(sheetName, "D", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 9)
	f.SetColWidth(sheetName, "F", "H", 14)
	f.SetColWidth(sheetName, "I", "I", 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf(
		"Reservas %s — %s",
		desde.UTC().Format("2006-01-02"),
		hasta.UTC().Format("2006-01-02"),
	))
	f.MergeCell(sheetName, "A1", "I1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	encabezados := []string{"Fecha", "Inicio", "Fin", "Sala", "Camilla", "Tipo", "Estado", "Reprogramada", "Usuario"}
	for i, h := range encabezados {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	row := 3
	for i := range reservas {
		r := &reservas[i]
		f.SetCellValue(sheetName, cell("A", row), r.Inicio.UTC().Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), r.Inicio.UTC().Format("15:04"))
		f.SetCellValue(sheetName, cell("C", row), r.Fin.UTC().Format("15:04"))
		f.SetCellValue(sheetName, cell("D", row), nombreSala(r))
		f.SetCellValue(sheetName, cell("E", row), siNo(r.UsaCamilla))
		f.SetCellValue(sheetName, cell("F", row), r.Tipo)
		f.SetCellValue(sheetName, cell("G", row), r.Estado)
		f.SetCellValue(sheetName, cell("H", row), siNo(r.Reprogramada))
		f.SetCellValue(sheetName, cell("I", row), nombreUsuario(r))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("escritura del Excel de reservas fallida", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("reservas_%s_%s.xlsx",
		desde.UTC().Format("20060102"), hasta.UTC().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) ExportarAccesos(ctx context.Context, desde, hasta time.Time) (*bytes.Buffer, string, error) {
	registros, err := s.repo.Acceso.ListarRango(ctx, desde, hasta)
	if err != nil {
		s.logger.Error("lectura de accesos para exportación fallida", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Accesos"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "E", 38)
	f.SetColWidth(sheetName, "F", "F", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf(
		"Accesos %s — %s",
		desde.UTC().Format("2006-01-02"),
		hasta.UTC().Format("2006-01-02"),
	))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	encabezados := []string{"Momento", "Nombre crudo", "Resultado", "Usuario ID", "Reserva ID", "Revisado"}
	for i, h := range encabezados {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	row := 3
	for i := range registros {
		r := &registros[i]
		f.SetCellValue(sheetName, cell("A", row), r.Momento.UTC().Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, cell("B", row), r.NombreCrudo)
		f.SetCellValue(sheetName, cell("C", row), r.Resultado)
		f.SetCellValue(sheetName, cell("D", row), deref(r.UsuarioID))
		f.SetCellValue(sheetName, cell("E", row), deref(r.ReservaID))
		f.SetCellValue(sheetName, cell("F", row), siNo(r.Revisado))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("escritura del Excel de accesos fallida", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("accesos_%s_%s.xlsx",
		desde.UTC().Format("20060102"), hasta.UTC().Format("20060102"))
	return buf, filename, nil
}

// ── Auxiliares ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nombreSala(r *model.Reserva) string {
	if r.Sala != nil {
		return r.Sala.Nombre
	}
	return r.SalaID
}

func nombreUsuario(r *model.Reserva) string {
	if r.Usuario != nil {
		return r.Usuario.NombreCompleto()
	}
	return r.UsuarioID
}
