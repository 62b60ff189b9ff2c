package config

import (
	"fmt"
	"os"
)

func Template() string {
	return teamTemplate
}

// WriteTemplate writes the team template to path. An existing file is
// kept unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(teamTemplate), 0o600)
}

const teamTemplate = `# simulation server
host = "localhost"
port = 12300

connect_timeout = "5s"
write_timeout = "5s"
max_frame_bytes = 4194304

# serve prometheus metrics; empty disables
metrics_addr = ""

[[agents]]
name = "agentA1"
password = "1"

[[agents]]
name = "agentA2"
password = "1"
`
