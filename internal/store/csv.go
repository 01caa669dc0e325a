package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// CSV columns, named like the records table.
const (
	colDay           = "dia"
	colAmount        = "valor"
	colMovement      = "tipo_mov"
	colCategory      = "categoria"
	colPaymentMethod = "forma_pagamento"
	colExpenseType   = "tipo_despesa"
)

var csvDateLayouts = []string{"2006-01-02", "02/01/2006"}

// ReadCSV parses records from a CSV export with a header row. Column order is
// free; tipo_despesa is optional. Amounts accept a decimal comma.
func ReadCSV(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range []string{colDay, colAmount, colMovement, colCategory, colPaymentMethod} {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("ReadCSV: missing column %q", c)
		}
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w", line, err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, idx map[string]int) (domain.Record, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(field(colDay))
	if err != nil {
		return domain.Record{}, err
	}

	amount, err := decimal.NewFromString(strings.Replace(field(colAmount), ",", ".", 1))
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid amount %q", field(colAmount))
	}

	movement := domain.MovementType(field(colMovement))
	if movement != domain.Outflow && movement != domain.Inflow {
		return domain.Record{}, fmt.Errorf("unknown movement %q", field(colMovement))
	}

	return domain.Record{
		Date:          date,
		Amount:        amount.Abs(),
		Movement:      movement,
		Category:      field(colCategory),
		PaymentMethod: field(colPaymentMethod),
		ExpenseType:   field(colExpenseType),
	}, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return domain.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
