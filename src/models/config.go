package models

// MConfig Structure
type MConfig struct {
	Name        string         `yaml:"name"`
	Host        string         `yaml:"host"`
	Port        int            `yaml:"port"`
	LogLevel    string         `yaml:"log_level"`
	GrpcHost    string         `yaml:"grpc_host"`
	GrpcPort    int            `yaml:"grpc_port"`
	FrontendDir string         `yaml:"frontend_dir"`
	Markets     MMarketsConfig `yaml:"markets"`
	Storage     MStorageConfig `yaml:"storage"`
	Limits      MLimitsConfig  `yaml:"limits"`
}

type MMarketsConfig struct {
	KR MMarketConfig `yaml:"kr"`
	US MMarketConfig `yaml:"us"`
}

type MMarketConfig struct {
	DataFile string `yaml:"data_file"`
	Calendar string `yaml:"calendar"` // ISO 10383 MIC, e.g. "xkrx"
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // file | sqlite | postgres
	DBPath             string `yaml:"db_path"`
	DataDir            string `yaml:"data_dir"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MLimitsConfig struct {
	TopN                 int     `yaml:"top_n"`
	FrequentLimit        int     `yaml:"frequent_limit"`
	SearchLimit          int     `yaml:"search_limit"`
	VisitorRatePerSecond float64 `yaml:"visitor_rate_per_second"`
	VisitorBurst         int     `yaml:"visitor_burst"`
}

// Market returns the market section for the given market id.
func (m MMarketsConfig) Market(market Market) MMarketConfig {
	if market == MarketUS {
		return m.US
	}
	return m.KR
}
