package models

// Municipio representa a resposta da API de localidades do IBGE.
// Microrregiao/mesorregiao podem vir nulas para alguns municípios,
// por isso os ponteiros.
type Municipio struct {
	ID           int    `json:"id"`
	Nome         string `json:"nome"`
	Microrregiao *struct {
		Nome        string `json:"nome"`
		Mesorregiao *struct {
			Nome string `json:"nome"`
			UF   *struct {
				Sigla  string `json:"sigla"`
				Nome   string `json:"nome"`
				Regiao *struct {
					Sigla string `json:"sigla"`
					Nome  string `json:"nome"`
				} `json:"regiao"`
			} `json:"UF"`
		} `json:"mesorregiao"`
	} `json:"microrregiao"`
}

// MetaMunicipio guarda os metadados já achatados de um município,
// prontos para serem anexados a cada linha do censo.
type MetaMunicipio struct {
	CidadeNome   string
	Microrregiao string
	Mesorregiao  string
	UF           string
	UFNome       string
	Regiao       string
	RegiaoSigla  string
}

// Achatar extrai os metadados de um Municipio tratando os níveis nulos.
func (m Municipio) Achatar() MetaMunicipio {
	meta := MetaMunicipio{CidadeNome: m.Nome}
	micro := m.Microrregiao
	if micro == nil {
		return meta
	}
	meta.Microrregiao = micro.Nome
	meso := micro.Mesorregiao
	if meso == nil {
		return meta
	}
	meta.Mesorregiao = meso.Nome
	uf := meso.UF
	if uf == nil {
		return meta
	}
	meta.UF = uf.Sigla
	meta.UFNome = uf.Nome
	if uf.Regiao != nil {
		meta.Regiao = uf.Regiao.Nome
		meta.RegiaoSigla = uf.Regiao.Sigla
	}
	return meta
}

// LinhaCenso é uma observação da tabela 9514 (população por sexo e idade)
// já filtrada e enriquecida com os metadados do município.
type LinhaCenso struct {
	CodigoMunicipio string `csv:"codigo_municipio" dataframe:"codigo_municipio"`
	CidadeNome      string `csv:"cidade_nome" dataframe:"cidade_nome"`
	Microrregiao    string `csv:"microrregiao" dataframe:"microrregiao"`
	Mesorregiao     string `csv:"mesorregiao" dataframe:"mesorregiao"`
	UF              string `csv:"uf" dataframe:"uf"`
	UFNome          string `csv:"uf_nome" dataframe:"uf_nome"`
	Regiao          string `csv:"regiao" dataframe:"regiao"`
	RegiaoSigla     string `csv:"regiao_sigla" dataframe:"regiao_sigla"`
	Ano             string `csv:"ano" dataframe:"ano"`
	Sexo            string `csv:"sexo" dataframe:"sexo"`
	Idade           string `csv:"idade" dataframe:"idade"`
	Pessoas         int    `csv:"pessoas" dataframe:"pessoas"`
}
