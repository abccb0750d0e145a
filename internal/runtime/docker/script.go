package docker

import (
	"fmt"
	"path"
	"strings"
	"text/template"
)

const (
	// containerSrcDir is where the workspace is bind-mounted, read-only.
	containerSrcDir = "/src"
	// containerBinaryPath lives outside the mount so the compiler can write it.
	containerBinaryPath = "/tmp/program"
	// mainSourceFilename is the entry-point file every workspace provides.
	mainSourceFilename = "main.cpp"
)

// runScriptTemplate is the two-phase protocol executed inside the container:
// compile, then conditionally run. The trailing EXIT_CODE sentinel always
// reflects the final determining phase, and the run phase carries its own
// wall-clock cutoff independent of any external timeout.
var runScriptTemplate = template.Must(template.New("runScript").Parse(`{{.CompileCommand}} 2>&1
status=$?
if [ $status -ne 0 ]; then
    echo "EXIT_CODE:$status"
    exit $status
fi
timeout {{.RunTimeoutSecs}} {{.BinaryPath}} 2>&1
status=$?
echo "EXIT_CODE:$status"
exit $status
`))

type scriptParams struct {
	CompileCommand string
	RunTimeoutSecs int
	BinaryPath     string
}

func renderScript(p scriptParams) (string, error) {
	var b strings.Builder
	if err := runScriptTemplate.Execute(&b, p); err != nil {
		return "", fmt.Errorf("render run script: %w", err)
	}
	return b.String(), nil
}

func compileCommand() string {
	return fmt.Sprintf("g++ -Wall -Wextra -std=c++17 %s -o %s",
		path.Join(containerSrcDir, mainSourceFilename), containerBinaryPath)
}
