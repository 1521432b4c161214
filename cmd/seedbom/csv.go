package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopfloor/internal/dto"
)

// parseBomCSV reads product_code,material_code,required_qty rows. A first row
// whose quantity column is not numeric is treated as a header.
func parseBomCSV(r io.Reader) ([]dto.UpsertBomRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []dto.UpsertBomRequest
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		qty, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: required_qty %q is not a number", line, rec[2])
		}
		product := strings.TrimSpace(rec[0])
		material := strings.TrimSpace(rec[1])
		if product == "" || material == "" {
			return nil, fmt.Errorf("line %d: product and material codes are required", line)
		}
		rows = append(rows, dto.UpsertBomRequest{ProductCode: product, MaterialCode: material, RequiredQty: qty})
	}
	return rows, nil
}
