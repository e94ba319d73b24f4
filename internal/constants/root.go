package constants

const (
	AppName            = "routineos"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/routineos"
	DefaultDBPath      = "~/.config/routineos/routineos.db"
	DefaultConfigFile  = "~/.config/routineos/config.toml"
	Version            = "v0.1.0"

	// EnvDBConnection holds a PostgreSQL connection string, including credentials if needed
	EnvDBConnection = "ROUTINEOS_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "routineos-"
	BackupFileSuffix = ".db"

	// Catalog defaults
	DefaultBlockColor = "#22d3ee"
	DefaultBlockIcon  = "✅"
	MaxIconRunes      = 8
	MinCutPriority    = 1
	MaxCutPriority    = 99
	BlockOrderStep    = 10
	SlugFallbackBase  = "block"
)
