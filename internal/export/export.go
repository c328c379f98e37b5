// Package export writes solved trajectories to JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	diffeq "github.com/alec-shirazi/godiffeq"
)

type Data struct {
	Problem   string      `json:"problem"`
	Algorithm string      `json:"algorithm,omitempty"`
	Points    int         `json:"points"`
	Times     []float64   `json:"times"`
	States    [][]float64 `json:"states"`
}

// FromSolution captures a solved trajectory for export.
func FromSolution(problem, algorithm string, sol *diffeq.Solution) Data {
	states := make([][]float64, len(sol.U))
	for i, u := range sol.U {
		states[i] = u
	}
	return Data{
		Problem:   problem,
		Algorithm: algorithm,
		Points:    len(sol.T),
		Times:     sol.T,
		States:    states,
	}
}

func WriteJSON(w io.Writer, data Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func WriteCSV(w io.Writer, data Data) error {
	dim := 0
	if len(data.States) > 0 {
		dim = len(data.States[0])
	}
	cw := csv.NewWriter(w)
	header := []string{"t"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, dim+1)
	for i, t := range data.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range data.States[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFile writes the trajectory to path, creating or truncating it.
func JSONFile(path string, data Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, data)
}

// CSVFile writes the trajectory to path, creating or truncating it.
func CSVFile(path string, data Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, data)
}
