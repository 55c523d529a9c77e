package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne tudo que antes ficava espalhado em os.Getenv:
// diretório de saída, credenciais do Postgres e parâmetros da coleta.
type Config struct {
	OutputDir    string
	OutputLatin1 bool

	// Banco (opcional: sem as variáveis o programa gera apenas o CSV)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSchema   string
	DBTable    string

	// APIs do IBGE (sobrescritas nos testes)
	LocalidadesBaseURL string
	SidraBaseURL       string

	// Timeouts por requisição; uma conexão travada não pode
	// segurar o worker (e o wg.Wait do estado) para sempre
	TimeoutLocalidades time.Duration
	TimeoutSidra       time.Duration

	// Coleta
	Workers     int
	PausaColeta time.Duration
}

// ErroConfig indica uma variável de ambiente ausente ou inválida.
type ErroConfig struct {
	Variavel string
	Motivo   string
}

func (e *ErroConfig) Error() string {
	return fmt.Sprintf("configuração inválida (%s): %s", e.Variavel, e.Motivo)
}

// BancoHabilitado informa se as credenciais do Postgres foram configuradas.
func (c *Config) BancoHabilitado() bool {
	return c.DBHost != ""
}

// loadConfig carrega o .env (se existir) e monta a configuração.
// As variáveis de banco são tudo-ou-nada: ausentes, o programa roda em
// modo somente-CSV; presentes pela metade, é erro de configuração.
func loadConfig() (*Config, error) {
	godotenv.Load(".env")

	cfg := &Config{
		OutputDir:          os.Getenv("OUTPUT_FILES_PATH"),
		OutputLatin1:       os.Getenv("OUTPUT_ENCODING") == "latin1",
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSchema:           os.Getenv("DB_SCHEMA"),
		DBTable:            os.Getenv("DB_TABLE"),
		LocalidadesBaseURL: os.Getenv("LOCALIDADES_BASE_URL"),
		SidraBaseURL:       os.Getenv("SIDRA_BASE_URL"),
		TimeoutLocalidades: timeoutLocalidadesPadrao,
		TimeoutSidra:       timeoutSidraPadrao,
		Workers:            3,
		PausaColeta:        1500 * time.Millisecond,
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "data/output"
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, &ErroConfig{Variavel: "OUTPUT_FILES_PATH", Motivo: err.Error()}
	}

	if cfg.LocalidadesBaseURL == "" {
		cfg.LocalidadesBaseURL = "https://servicodados.ibge.gov.br"
	}
	if cfg.SidraBaseURL == "" {
		cfg.SidraBaseURL = "https://apisidra.ibge.gov.br"
	}

	if v := os.Getenv("COLETA_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, &ErroConfig{Variavel: "COLETA_WORKERS", Motivo: "esperado inteiro >= 1, recebido " + v}
		}
		cfg.Workers = n
	}
	if v := os.Getenv("COLETA_PAUSA_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, &ErroConfig{Variavel: "COLETA_PAUSA_MS", Motivo: "esperado inteiro >= 0, recebido " + v}
		}
		cfg.PausaColeta = time.Duration(ms) * time.Millisecond
	}

	// Banco: ou todas as variáveis obrigatórias, ou nenhuma
	obrigatorias := map[string]string{
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_PASSWORD": cfg.DBPassword,
		"DB_NAME":     cfg.DBName,
	}
	definidas := 0
	for _, v := range obrigatorias {
		if v != "" {
			definidas++
		}
	}
	if definidas > 0 && definidas < len(obrigatorias) {
		for nome, v := range obrigatorias {
			if v == "" {
				return nil, &ErroConfig{Variavel: nome, Motivo: "variável de banco ausente (configure todas ou nenhuma)"}
			}
		}
	}
	if cfg.DBSchema == "" {
		cfg.DBSchema = "public"
	}
	if cfg.DBTable == "" {
		cfg.DBTable = "censo_2022_municipio_sexo_idade"
	}

	return cfg, nil
}
