package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

const nomeArquivoCSV = "censo_2022_municipio_sexo_idade.csv"

// salvarCSV grava o consolidado de todos os estados em um único CSV no
// diretório de saída, sobrescrevendo o arquivo da execução anterior.
// Com OUTPUT_ENCODING=latin1 o arquivo sai em ISO-8859-1, que o Excel
// brasileiro abre sem quebrar a acentuação.
func salvarCSV(cfg *Config, linhas []models.LinhaCenso) (string, error) {
	caminho := filepath.Join(cfg.OutputDir, nomeArquivoCSV)

	f, err := os.Create(caminho)
	if err != nil {
		return "", fmt.Errorf("erro ao criar arquivo %s: %w", caminho, err)
	}
	defer f.Close()

	var w io.Writer = f
	var tw *transform.Writer
	if cfg.OutputLatin1 {
		tw = transform.NewWriter(f, charmap.ISO8859_1.NewEncoder())
		w = tw
	}

	df := dataframe.LoadStructs(linhas)
	if df.Err != nil {
		return "", fmt.Errorf("erro ao montar dataframe: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return "", fmt.Errorf("erro ao escrever CSV em %s: %w", caminho, err)
	}
	// O Close do transform descarrega o que ficou no buffer; engolir o erro
	// aqui deixaria um CSV truncado passando por sucesso
	if tw != nil {
		if err := tw.Close(); err != nil {
			return "", fmt.Errorf("erro ao codificar CSV em latin1 (%s): %w", caminho, err)
		}
	}
	return caminho, nil
}
