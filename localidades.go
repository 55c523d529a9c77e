package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// Mesmos limites da coleta original: a API de localidades responde rápido,
// o SIDRA pode demorar bem mais por município.
const (
	timeoutLocalidadesPadrao = 30 * time.Second
	timeoutSidraPadrao       = 60 * time.Second
)

// ErroRequisicao indica falha de rede ou status não-2xx em uma chamada às APIs do IBGE.
type ErroRequisicao struct {
	URL string
	Err error
}

func (e *ErroRequisicao) Error() string {
	return fmt.Sprintf("erro ao consultar %s: %v", e.URL, e.Err)
}

func (e *ErroRequisicao) Unwrap() error { return e.Err }

// getMunicipios busca os códigos e metadados de todos os municípios de um
// estado na API de localidades do IBGE.
func getMunicipios(ctx context.Context, cfg *Config, uf string) (map[string]models.MetaMunicipio, error) {
	url := fmt.Sprintf("%s/api/v1/localidades/estados/%s/municipios", cfg.LocalidadesBaseURL, uf)

	timeout := cfg.TimeoutLocalidades
	if timeout == 0 {
		timeout = timeoutLocalidadesPadrao
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cidades []models.Municipio
	err := requests.URL(url).
		ToJSON(&cidades).
		Fetch(ctx)
	if err != nil {
		return nil, &ErroRequisicao{URL: url, Err: err}
	}

	metadata := make(map[string]models.MetaMunicipio, len(cidades))
	for _, cidade := range cidades {
		metadata[strconv.Itoa(cidade.ID)] = cidade.Achatar()
	}
	return metadata, nil
}
