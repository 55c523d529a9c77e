package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLerCSVConsolidado(t *testing.T) {
	cfg := &Config{OutputDir: t.TempDir()}
	originais := linhasExemplo()

	caminho, err := salvarCSV(cfg, originais)
	require.NoError(t, err)

	lidas, err := lerCSVConsolidado(caminho)
	require.NoError(t, err)
	require.Equal(t, originais, lidas, "o CSV gerado precisa reimportar sem perdas")
}

func TestLerCSVConsolidadoInexistente(t *testing.T) {
	_, err := lerCSVConsolidado(filepath.Join(t.TempDir(), "nao_existe.csv"))
	require.Error(t, err)
}
