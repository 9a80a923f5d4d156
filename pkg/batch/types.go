package batch

// Config represents the configuration for batch processing
type Config struct {
	OutputDir string `yaml:"output_dir"`
	Jobs      []Job  `yaml:"jobs"`
}

// Job represents a single artifact generated in a batch run
type Job struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Kind is one of config, job-definition, config-from-job-definition.
	Kind   string `yaml:"kind"`
	Output string `yaml:"output"`
	// Format applies to job-definition jobs: json (default) or yaml.
	Format   string `yaml:"format,omitempty"`
	Template string `yaml:"template,omitempty"`
	// JobDefinition and Status apply to config-from-job-definition jobs.
	JobDefinition string `yaml:"job_definition,omitempty"`
	Status        string `yaml:"status,omitempty"`
}
