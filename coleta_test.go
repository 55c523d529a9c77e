package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// destinoFake captura as inserções que iriam para o Postgres.
type destinoFake struct {
	lotes [][]models.LinhaCenso
}

func (d *destinoFake) InserirLinhas(linhas []models.LinhaCenso) error {
	copia := make([]models.LinhaCenso, len(linhas))
	copy(copia, linhas)
	d.lotes = append(d.lotes, copia)
	return nil
}

func (d *destinoFake) total() int {
	n := 0
	for _, lote := range d.lotes {
		n += len(lote)
	}
	return n
}

// destinoComErro simula uma falha de persistência.
type destinoComErro struct{}

func (destinoComErro) InserirLinhas([]models.LinhaCenso) error {
	return fmt.Errorf("conexão com o banco perdida")
}

// servidorIBGE sobe um servidor fake com as duas APIs: localidades e SIDRA.
// Cada município devolve 2 sexos x 15 idades simples mais os agregados que o
// filtro precisa descartar. Municípios listados em falhos respondem 500.
func servidorIBGE(t *testing.T, municipios []string, falhos map[string]bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/localidades/estados/XX/municipios", func(w http.ResponseWriter, r *http.Request) {
		var cidades []map[string]interface{}
		for _, id := range municipios {
			cidades = append(cidades, map[string]interface{}{
				"id":   json.Number(id),
				"nome": "Cidade " + id,
				"microrregiao": map[string]interface{}{
					"nome": "Micro " + id,
					"mesorregiao": map[string]interface{}{
						"nome": "Meso " + id,
						"UF": map[string]interface{}{
							"sigla": "XX",
							"nome":  "Estado Teste",
							"regiao": map[string]interface{}{
								"sigla": "TE",
								"nome":  "Teste",
							},
						},
					},
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cidades)
	})
	mux.HandleFunc("/values/t/9514/n6/", func(w http.ResponseWriter, r *http.Request) {
		partes := strings.Split(r.URL.Path, "/")
		id := partes[5]
		if falhos[id] {
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}

		payload := []map[string]string{legendaSidra()}
		for _, sexo := range []string{"Homens", "Mulheres"} {
			for idade := 20; idade < 35; idade++ {
				payload = append(payload, linhaSidra(id, sexo, fmt.Sprintf("%d anos", idade), "100"))
			}
			payload = append(payload, linhaSidra(id, sexo, "Total", "1500"))
			payload = append(payload, linhaSidra(id, sexo, "20 a 24 anos", "500"))
		}
		payload = append(payload, linhaSidra(id, "Total", "20 anos", "200"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	})

	return httptest.NewServer(mux)
}

func configTeste(t *testing.T, srv *httptest.Server) *Config {
	t.Helper()
	return &Config{
		OutputDir:          t.TempDir(),
		LocalidadesBaseURL: srv.URL,
		SidraBaseURL:       srv.URL,
		DBSchema:           "public",
		DBTable:            "censo_2022_municipio_sexo_idade",
		Workers:            3,
		PausaColeta:        0,
	}
}

func TestColetarEstadosCompleto(t *testing.T) {
	srv := servidorIBGE(t, []string{"1100015", "1100023", "1100031"}, nil)
	defer srv.Close()

	cfg := configTeste(t, srv)
	db := &destinoFake{}

	err := coletarEstados(context.Background(), cfg, []string{"XX"}, db)
	require.NoError(t, err)

	// 3 municípios x 2 sexos x 15 idades simples = 90 linhas, em um insert por estado
	require.Len(t, db.lotes, 1)
	require.Equal(t, 90, db.total())

	conteudo, err := os.ReadFile(filepath.Join(cfg.OutputDir, nomeArquivoCSV))
	require.NoError(t, err)
	registros := strings.Split(strings.TrimRight(string(conteudo), "\n"), "\n")
	require.Len(t, registros, 91, "cabeçalho + 90 linhas de dados")

	for _, lote := range db.lotes {
		for _, l := range lote {
			require.NotEqual(t, "Total", l.Sexo)
			require.NotEqual(t, "Total", l.Idade)
			require.Equal(t, "Estado Teste", l.UFNome)
		}
	}
}

func TestColetarEstadosDeterministico(t *testing.T) {
	srv := servidorIBGE(t, []string{"1100015", "1100023", "1100031"}, nil)
	defer srv.Close()

	cfg := configTeste(t, srv)

	require.NoError(t, coletarEstados(context.Background(), cfg, []string{"XX"}, &destinoFake{}))
	primeiro, err := os.ReadFile(filepath.Join(cfg.OutputDir, nomeArquivoCSV))
	require.NoError(t, err)

	require.NoError(t, coletarEstados(context.Background(), cfg, []string{"XX"}, &destinoFake{}))
	segundo, err := os.ReadFile(filepath.Join(cfg.OutputDir, nomeArquivoCSV))
	require.NoError(t, err)

	require.Equal(t, primeiro, segundo, "mesmos dados de origem, mesmo CSV byte a byte")
}

func TestColetarEstadosMunicipioComFalha(t *testing.T) {
	srv := servidorIBGE(t, []string{"1100015", "1100023", "1100031"}, map[string]bool{"1100023": true})
	defer srv.Close()

	cfg := configTeste(t, srv)
	db := &destinoFake{}

	// município com falha é pulado com aviso, o restante do estado segue
	err := coletarEstados(context.Background(), cfg, []string{"XX"}, db)
	require.NoError(t, err)
	require.Equal(t, 60, db.total())
}

func TestColetarEstadosSemBanco(t *testing.T) {
	srv := servidorIBGE(t, []string{"1100015"}, nil)
	defer srv.Close()

	cfg := configTeste(t, srv)

	// destino nil = modo somente-CSV
	err := coletarEstados(context.Background(), cfg, []string{"XX"}, nil)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(cfg.OutputDir, nomeArquivoCSV))
}

func TestColetarEstadosErroDePersistencia(t *testing.T) {
	srv := servidorIBGE(t, []string{"1100015"}, nil)
	defer srv.Close()

	cfg := configTeste(t, srv)

	err := coletarEstados(context.Background(), cfg, []string{"XX"}, destinoComErro{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "XX")
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, nomeArquivoCSV),
		"coleta abortada não gera CSV consolidado")
}

func TestColetarEstadosErroNasLocalidades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fora do ar", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := configTeste(t, srv)

	err := coletarEstados(context.Background(), cfg, []string{"XX"}, &destinoFake{})
	require.Error(t, err)

	var er *ErroRequisicao
	require.ErrorAs(t, err, &er)
}
