package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// Faixas etárias agregadas ("0 a 4 anos", "Menos de 1 ano", "100 anos ou mais"
// agrupado em décadas etc.) que duplicariam as idades simples.
var faixaAgregadaPat = regexp.MustCompile(`(?i)\d+\s+a\s+\d+\s+anos|Menos\s+de|ou\s+mais`)

// montarLinhas achata o payload do SIDRA em linhas do censo, descartando a
// legenda, os totais por sexo e por idade e as faixas etárias agregadas.
// Linhas com campos ausentes ou valores não numéricos são puladas em vez de
// derrubar a coleta (a API muda de formato de tempos em tempos).
func montarLinhas(payload []map[string]string, meta models.MetaMunicipio) []models.LinhaCenso {
	if len(payload) < 2 {
		return nil
	}

	linhas := make([]models.LinhaCenso, 0, len(payload)-1)
	// payload[0] é a legenda das colunas
	for _, row := range payload[1:] {
		// Linha agregada repetindo o cabeçalho do nível territorial
		if row["D1N"] == "Município" {
			continue
		}

		codigo := row["D1C"]
		ano := row["D3C"]
		sexo := row["D4N"]
		idade := row["D5N"]
		valor := row["V"]
		if codigo == "" || sexo == "" || idade == "" || valor == "" {
			continue
		}

		// Só interessa a granularidade sexo específico x idade simples
		if strings.EqualFold(sexo, "Total") {
			continue
		}
		if strings.EqualFold(idade, "Total") || faixaAgregadaPat.MatchString(idade) {
			continue
		}

		// "-" no SIDRA significa zero; "..." e "X" são dado indisponível/sigiloso
		if valor == "-" {
			valor = "0"
		}
		pessoas, err := strconv.Atoi(valor)
		if err != nil {
			continue
		}

		linhas = append(linhas, models.LinhaCenso{
			CodigoMunicipio: codigo,
			CidadeNome:      meta.CidadeNome,
			Microrregiao:    meta.Microrregiao,
			Mesorregiao:     meta.Mesorregiao,
			UF:              meta.UF,
			UFNome:          meta.UFNome,
			Regiao:          meta.Regiao,
			RegiaoSigla:     meta.RegiaoSigla,
			Ano:             ano,
			Sexo:            sexo,
			Idade:           idade,
			Pessoas:         pessoas,
		})
	}
	return linhas
}
