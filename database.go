package main

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/mdrrv/dados-senso-ibge-2022/models"
)

// Colunas da tabela de destino, na mesma ordem de models.LinhaCenso.
var colunasCenso = []string{
	"codigo_municipio", "cidade_nome", "microrregiao", "mesorregiao",
	"uf", "uf_nome", "regiao", "regiao_sigla", "ano", "sexo", "idade", "pessoas",
}

// CensoDB encapsula a conexão com o Postgres e o destino (schema.tabela)
// das linhas do censo.
type CensoDB struct {
	db     *sql.DB
	schema string
	table  string
}

func conectaDB(cfg *Config) (*CensoDB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com banco de dados: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar com banco de dados: %w", err)
	}

	return &CensoDB{db: db, schema: cfg.DBSchema, table: cfg.DBTable}, nil
}

func (c *CensoDB) Close() error {
	return c.db.Close()
}

func (c *CensoDB) destino() string {
	return c.schema + "." + c.table
}

// comandosPreparaTabela devolve, na ordem de execução, os comandos que
// preparam o destino: cria o schema e a tabela se não existirem e limpa os
// dados da execução anterior.
func (c *CensoDB) comandosPreparaTabela() []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", c.schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id SERIAL PRIMARY KEY,
  codigo_municipio TEXT,
  cidade_nome TEXT,
  microrregiao TEXT,
  mesorregiao TEXT,
  uf TEXT,
  uf_nome TEXT,
  regiao TEXT,
  regiao_sigla TEXT,
  ano TEXT,
  sexo TEXT,
  idade TEXT,
  pessoas BIGINT
)`, c.destino()),
		fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", c.destino()),
	}
}

// PreparaTabela executa os comandos de preparação do destino. Chamada uma vez
// no início de cada coleta; depois dela a tabela está vazia.
func (c *CensoDB) PreparaTabela() error {
	for _, cmd := range c.comandosPreparaTabela() {
		if _, err := c.db.Exec(cmd); err != nil {
			return fmt.Errorf("erro ao preparar tabela %s: %w", c.destino(), err)
		}
	}
	return nil
}

// InserirLinhas insere as linhas de um estado em lotes dentro de uma
// transação. Cada estado é persistido assim que termina de ser coletado;
// estados já inseridos não sofrem rollback se um posterior falhar.
func (c *CensoDB) InserirLinhas(linhas []models.LinhaCenso) error {
	if len(linhas) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	const batchSize = 1000
	for inicio := 0; inicio < len(linhas); inicio += batchSize {
		fim := inicio + batchSize
		if fim > len(linhas) {
			fim = len(linhas)
		}
		if err := c.insertBatch(tx, linhas[inicio:fim]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar transação: %w", err)
	}
	return nil
}

func (c *CensoDB) insertBatch(tx *sql.Tx, batch []models.LinhaCenso) error {
	query := montaInsertQuery(c.schema, c.table, len(batch))

	values := make([]interface{}, 0, len(batch)*len(colunasCenso))
	for _, l := range batch {
		values = append(values,
			l.CodigoMunicipio, l.CidadeNome, l.Microrregiao, l.Mesorregiao,
			l.UF, l.UFNome, l.Regiao, l.RegiaoSigla, l.Ano, l.Sexo, l.Idade, l.Pessoas,
		)
	}

	if _, err := tx.Exec(query, values...); err != nil {
		return fmt.Errorf("erro ao inserir lote de %d linhas: %w", len(batch), err)
	}
	return nil
}

// montaInsertQuery monta o INSERT com placeholders $n para um lote de n linhas.
func montaInsertQuery(schema, table string, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s.%s (%s) VALUES ", schema, table, strings.Join(colunasCenso, ", "))

	cols := len(colunasCenso)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteString(")")
	}
	return sb.String()
}
