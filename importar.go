package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// lerCSVConsolidado carrega de volta um CSV gerado pelo salvarCSV.
func lerCSVConsolidado(caminho string) ([]models.LinhaCenso, error) {
	f, err := os.Open(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir CSV %s: %w", caminho, err)
	}
	defer f.Close()

	var linhas []models.LinhaCenso
	if err := gocsv.UnmarshalFile(f, &linhas); err != nil {
		return nil, fmt.Errorf("erro ao ler CSV %s: %w", caminho, err)
	}
	if len(linhas) == 0 {
		return nil, fmt.Errorf("CSV %s não contém linhas de dados", caminho)
	}
	return linhas, nil
}

// importarCSV recarrega no banco um CSV consolidado gerado por uma execução
// anterior, sem refazer a coleta. A tabela é limpa antes da importação, como
// em uma coleta normal.
func importarCSV(cfg *Config, caminho string) error {
	if caminho == "" {
		caminho = filepath.Join(cfg.OutputDir, nomeArquivoCSV)
	}

	linhas, err := lerCSVConsolidado(caminho)
	if err != nil {
		return err
	}

	db, err := conectaDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PreparaTabela(); err != nil {
		return err
	}
	if err := db.InserirLinhas(linhas); err != nil {
		return err
	}

	fmt.Printf("✅ %d linhas de %s importadas na tabela %s.%s.\n",
		len(linhas), caminho, cfg.DBSchema, cfg.DBTable)
	return nil
}
