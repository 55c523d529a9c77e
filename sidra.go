package main

import (
	"context"
	"fmt"

	"github.com/carlmjohnson/requests"
)

// Tabela 9514 do SIDRA: população residente por sexo e idade (Censo 2022).
// c2/allxt = sexo sem o total, c287/all = todas as idades, c286/113635 = forma
// de declaração consolidada.
const sidraCaminho = "/values/t/9514/n6/%s/v/allxp/p/all/c2/allxt/c287/all/c286/113635"

// fetchMunicipio consulta o SIDRA para um município e devolve o payload cru:
// um array JSON de objetos com chaves D1C, D1N, D3C, D4N, D5N, V etc., em que
// o primeiro elemento é a legenda das colunas.
func fetchMunicipio(ctx context.Context, cfg *Config, idMunicipio string) ([]map[string]string, error) {
	url := cfg.SidraBaseURL + fmt.Sprintf(sidraCaminho, idMunicipio)

	timeout := cfg.TimeoutSidra
	if timeout == 0 {
		timeout = timeoutSidraPadrao
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var payload []map[string]string
	err := requests.URL(url).
		ToJSON(&payload).
		Fetch(ctx)
	if err != nil {
		return nil, &ErroRequisicao{URL: url, Err: err}
	}
	return payload, nil
}
