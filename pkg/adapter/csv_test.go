package adapter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/gt"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCSVTableGetValues(t *testing.T) {
	path := writeFile(t, "Curriculo.csv",
		"\ufeffSeção,Descrição\n"+
			"Formação,\"Bacharel em Ciência da Computação, UFMG\"\n"+
			"Skills\n")

	table, err := adapter.NewCSVTable(path).GetValues(context.Background(), "ignored", "ignored")
	gt.NoError(t, err)
	gt.Equal(t, table, model.RawTable{
		{"Seção", "Descrição"},
		{"Formação", "Bacharel em Ciência da Computação, UFMG"},
		{"Skills"},
	})

	rs := model.BuildRecordSet(table)
	gt.Equal(t, rs.Flatten("Seção", "Descrição"),
		"Formação: Bacharel em Ciência da Computação, UFMG\nSkills: ")
}

func TestCSVTableTSV(t *testing.T) {
	path := writeFile(t, "curriculo.tsv", "Seção\tDescrição\nSkills\tGo, SQL\n")

	table, err := adapter.NewCSVTable(path).GetValues(context.Background(), "", "")
	gt.NoError(t, err)
	gt.Equal(t, table, model.RawTable{
		{"Seção", "Descrição"},
		{"Skills", "Go, SQL"},
	})
}

func TestCSVTableEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	table, err := adapter.NewCSVTable(path).GetValues(context.Background(), "", "")
	gt.NoError(t, err)
	gt.A(t, table).Length(0)
}

func TestCSVTableMissingFile(t *testing.T) {
	c := adapter.NewCSVTable(filepath.Join(t.TempDir(), "missing.csv"))
	gt.S(t, c.Path()).Contains("missing.csv")

	_, err := c.GetValues(context.Background(), "", "")
	gt.Error(t, err)
}
