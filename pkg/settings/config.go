package settings

type Config struct {
	Server Server `mapstructure:"server" yaml:"server"`
	Logger Logger `mapstructure:"logger" yaml:"logger"`
	Index  Index  `mapstructure:"index" yaml:"index"`
	Bench  Bench  `mapstructure:"bench" yaml:"bench"`
}

// Server is the configuration for the HTTP server
type Server struct {
	Mode string `mapstructure:"mode" yaml:"mode" validate:"oneof=debug release test"`
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name" yaml:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age" validate:"min=0"`   // Days
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size" validate:"min=0"` // Megabytes
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// Index is the configuration for an ordered index
type Index struct {
	Order int `mapstructure:"order" yaml:"order" validate:"min=3"`
	// CompactRatio is the share of tombstoned slots that triggers a rebuild.
	// Zero disables automatic compaction.
	CompactRatio  float64 `mapstructure:"compact_ratio" yaml:"compact_ratio" validate:"min=0,max=1"`
	MinTombstones int     `mapstructure:"min_tombstones" yaml:"min_tombstones" validate:"min=0"`
	// Bloom sizes the negative-lookup filter. Zero capacity disables it.
	BloomCapacity uint64  `mapstructure:"bloom_capacity" yaml:"bloom_capacity"`
	BloomFPRate   float64 `mapstructure:"bloom_fp_rate" yaml:"bloom_fp_rate" validate:"gte=0,lt=1"`
}

// Bench is the configuration for the benchmark driver
type Bench struct {
	Orders     []int  `mapstructure:"orders" yaml:"orders" validate:"required,min=1,dive,min=3"`
	Elements   int    `mapstructure:"elements" yaml:"elements" validate:"min=1"`
	MaxValue   int    `mapstructure:"max_value" yaml:"max_value" validate:"min=1"`
	NumQueries int    `mapstructure:"num_queries" yaml:"num_queries" validate:"min=0"`
	Seed       uint64 `mapstructure:"seed" yaml:"seed"`
}
