package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return nil
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// formatBRL renders a monetary value with the Brazilian real symbol and
// pt-BR digit separators.
func formatBRL(v float64) string {
	return brl.Sprintf("%v", currency.Symbol(currency.BRL.Amount(v)))
}

// WriteShoppingListCSV streams a shopping list as CSV, money columns in BRL.
func WriteShoppingListCSV(w io.Writer, list []ShoppingListItem, includeWarning bool, generatedAt time.Time) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Lista de Compras"); err != nil {
		return err
	}
	scope := "abaixo do ponto de pedido"
	if includeWarning {
		scope = "abaixo do ponto de pedido + atencao"
	}
	if err := streamer.writeComment(fmt.Sprintf("# Gerado em: %s | Escopo: %s", generatedAt.Format("2006-01-02 15:04"), scope)); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Produto", "Estoque", "Ponto de Pedido", "Estoque Alvo", "Comprar", "Custo Estimado"}); err != nil {
		return err
	}
	var total float64
	for _, item := range list {
		total += item.EstimatedCost
		if err := streamer.writeRow([]string{
			item.Name,
			fmt.Sprintf("%.2f", item.Stock),
			fmt.Sprintf("%.2f", item.ReorderLevel),
			fmt.Sprintf("%.0f", item.TargetStock),
			fmt.Sprintf("%.2f", item.Amount),
			formatBRL(item.EstimatedCost),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", "", "Total", formatBRL(total)}); err != nil {
		return err
	}
	return streamer.Close()
}
