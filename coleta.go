package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// destino é onde as linhas de um estado são persistidas assim que ficam
// prontas. *CensoDB implementa; os testes usam um destino em memória.
type destino interface {
	InserirLinhas(linhas []models.LinhaCenso) error
}

// coletarEstado busca os municípios de um estado e consulta o SIDRA para cada
// um em paralelo, com limite de workers. Falha em um município gera apenas um
// aviso; o restante do estado continua.
func coletarEstado(ctx context.Context, cfg *Config, uf string) ([]models.LinhaCenso, error) {
	metadata, err := getMunicipios(ctx, cfg, uf)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar municípios do estado %s: %w", uf, err)
	}

	sem := make(chan struct{}, cfg.Workers)
	linhasCh := make(chan []models.LinhaCenso)
	var wg sync.WaitGroup

	for id, meta := range metadata {
		wg.Add(1)
		go func(id string, meta models.MetaMunicipio) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			payload, err := fetchMunicipio(ctx, cfg, id)
			if cfg.PausaColeta > 0 {
				time.Sleep(cfg.PausaColeta)
			}
			if err != nil {
				fmt.Printf("⚠️ Falha ao coletar município %s do estado %s: %v\n", id, uf, err)
				return
			}

			linhas := montarLinhas(payload, meta)
			if len(linhas) == 0 {
				fmt.Printf("⚠️ Nenhuma linha para o município %s do estado %s\n", id, uf)
				return
			}
			linhasCh <- linhas
		}(id, meta)
	}

	go func() {
		wg.Wait()
		close(linhasCh)
	}()

	var todas []models.LinhaCenso
	for linhas := range linhasCh {
		todas = append(todas, linhas...)
	}
	return todas, nil
}

// ordenarLinhas deixa a saída determinística independentemente da ordem em
// que as goroutines terminam, para que duas execuções com os mesmos dados
// gerem CSVs idênticos.
func ordenarLinhas(linhas []models.LinhaCenso) {
	sort.Slice(linhas, func(i, j int) bool {
		a, b := linhas[i], linhas[j]
		if a.CodigoMunicipio != b.CodigoMunicipio {
			return a.CodigoMunicipio < b.CodigoMunicipio
		}
		if a.Sexo != b.Sexo {
			return a.Sexo < b.Sexo
		}
		return a.Idade < b.Idade
	})
}

// coletarEstados percorre os estados em sequência, insere cada um no banco
// assim que termina e no final grava o CSV consolidado. db pode ser nil
// (modo somente-CSV). Erro de banco aborta a execução; estados já inseridos
// permanecem na tabela.
func coletarEstados(ctx context.Context, cfg *Config, estados []string, db destino) error {
	var todas []models.LinhaCenso

	for _, uf := range estados {
		fmt.Printf("✔️ Estado em execução: %s\n", uf)

		linhas, err := coletarEstado(ctx, cfg, uf)
		if err != nil {
			return err
		}
		if len(linhas) == 0 {
			fmt.Printf("⚠️ Nenhum dado coletado para o estado %s.\n", uf)
			continue
		}
		ordenarLinhas(linhas)

		if db != nil {
			if err := db.InserirLinhas(linhas); err != nil {
				return fmt.Errorf("erro ao inserir dados do estado %s no banco: %w", uf, err)
			}
			fmt.Printf("✅ Dados do estado %s inseridos na tabela %s.%s (%d linhas).\n",
				uf, cfg.DBSchema, cfg.DBTable, len(linhas))
		}

		todas = append(todas, linhas...)
	}

	if len(todas) == 0 {
		fmt.Println("⚠️ Nenhum dado foi coletado para quaisquer estados.")
		return nil
	}

	caminho, err := salvarCSV(cfg, todas)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Dados consolidados salvos em %s (%d linhas).\n", caminho, len(todas))
	return nil
}
