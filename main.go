package main

import (
	"context"
	"fmt"
	"os"
)

// As 27 unidades federativas do Brasil.
var estadosBrasil = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT",
	"MS", "MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS",
	"RO", "RR", "SC", "SP", "SE", "TO",
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Println("Erro de configuração:", err)
		os.Exit(1)
	}

	// "importar [arquivo.csv]" recarrega um CSV de execução anterior no banco
	if len(os.Args) > 1 && os.Args[1] == "importar" {
		if !cfg.BancoHabilitado() {
			fmt.Println("Erro: modo importar exige as variáveis de banco configuradas.")
			os.Exit(1)
		}
		caminho := ""
		if len(os.Args) > 2 {
			caminho = os.Args[2]
		}
		if err := importarCSV(cfg, caminho); err != nil {
			fmt.Println("Erro ao importar CSV:", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()

	var db *CensoDB
	if cfg.BancoHabilitado() {
		db, err = conectaDB(cfg)
		if err != nil {
			fmt.Println("Erro ao preparar banco:", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PreparaTabela(); err != nil {
			fmt.Println("Erro ao preparar tabela:", err)
			os.Exit(1)
		}
	} else {
		fmt.Println("ℹ️ Variáveis de conexão com o banco não estão completas; apenas o CSV será gerado.")
	}

	// destino nil quando não há banco, para o coletor pular a inserção
	var sink destino
	if db != nil {
		sink = db
	}

	if err := coletarEstados(ctx, cfg, estadosBrasil, sink); err != nil {
		fmt.Println("Erro na coleta:", err)
		os.Exit(1)
	}
}
