package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executable
	Main_version = "v1.0.0"

	// Modular tools
	Benchmark        = "v1.0.0"
	RNA_Seq_Analysis = "v1.0.0"
	TPM              = "v1.0.0"
	GMT_Filter       = "v1.0.0"
	Sanity_check     = "v1.0.1"
)
