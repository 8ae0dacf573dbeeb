package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"mediio-admin/internal/persist"
	"mediio-admin/internal/store"
)

func writeClinics(t *testing.T, path string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Kliniken")
	require.NoError(t, err)
	for _, cells := range [][]string{{"Name", "Adresse"}, {"Klinik A", "Weg 1"}} {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	require.NoError(t, f.Save(path))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "mediio.db")
	t.Setenv("STORAGE_DRIVER", persist.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)

	t.Run("Requires file", func(t *testing.T) {
		assert.Equal(t, 1, run(nil))
		assert.Equal(t, 1, run([]string{"--dry-run"}))
	})

	t.Run("Missing workbook fails after storage was opened", func(t *testing.T) {
		assert.Equal(t, 1, run([]string{"--file=" + filepath.Join(dir, "missing.xlsx")}))
		_, err := os.Stat(dbPath)
		require.NoError(t, err)
	})

	t.Run("Imports into storage", func(t *testing.T) {
		xlsxPath := filepath.Join(dir, "clinics.xlsx")
		writeClinics(t, xlsxPath)
		require.Equal(t, 0, run([]string{"--file=" + xlsxPath}))

		// the tool released the database, so it can be reopened right away
		s, err := persist.OpenSQLite(context.Background(), dbPath)
		require.NoError(t, err)
		defer s.Close()
		raw, err := s.Load(context.Background(), store.ClinicsKey)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Klinik A")
	})
}
