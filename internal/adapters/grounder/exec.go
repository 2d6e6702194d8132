// Package grounder shells out to an external PDDL grounder to obtain the
// full action space of a problem.
package grounder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/advgen/internal/ports/secondary"
)

// ErrGrounding is returned when the external grounder fails or produces no
// actions.
var ErrGrounding = errors.New("grounding failed")

// Multi-word action names that underscore expansion splits apart. The
// repair keeps action names as single tokens while parameters stay split.
var compoundActions = []string{"take_image", "turn_to", "switch_on", "switch_off", "calibrate_instrument"}

// ExecProvider runs a configured grounder command against the extracted
// problem and parses one grounded action per output line.
type ExecProvider struct {
	command []string
}

// NewExecProvider creates a provider around the grounder argv prefix. The
// domain and problem file paths are appended at invocation time.
func NewExecProvider(command []string) *ExecProvider {
	return &ExecProvider{command: command}
}

// Ground materializes problem.pddl from the bundle template and runs the
// grounder over it, returning the normalized, deduplicated, sorted action
// space.
func (p *ExecProvider) Ground(ctx context.Context, problemDir string) ([]string, error) {
	if len(p.command) == 0 {
		return nil, fmt.Errorf("%w: no grounder command configured", ErrGrounding)
	}

	problemPath, err := CreateProblemFile(problemDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrounding, err)
	}

	domainPath := filepath.Join(filepath.Dir(problemPath), "domain.pddl")
	if _, err := os.Stat(domainPath); err != nil {
		return nil, fmt.Errorf("%w: bundle has no domain.pddl", ErrGrounding)
	}

	args := append(append([]string(nil), p.command[1:]...), domainPath, problemPath)
	cmd := exec.CommandContext(ctx, p.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrGrounding, err, strings.TrimSpace(stderr.String()))
	}

	actions := NormalizeActions(strings.Split(stdout.String(), "\n"))
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: grounder produced no actions", ErrGrounding)
	}

	return actions, nil
}

// CreateProblemFile writes problem.pddl next to the bundle template by
// substituting the real goal for the <HYPOTHESIS> placeholder. It returns
// the path written.
func CreateProblemFile(problemDir string) (string, error) {
	templatePath, err := findFile(problemDir, "template.pddl")
	if err != nil {
		return "", err
	}
	realHypPath, err := findFile(problemDir, "real_hyp.dat")
	if err != nil {
		return "", err
	}

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	realHyp, err := os.ReadFile(realHypPath)
	if err != nil {
		return "", fmt.Errorf("failed to read real goal: %w", err)
	}

	goal := hypothesisGoal(string(realHyp))
	content := strings.ReplaceAll(string(template), "<HYPOTHESIS>", goal)

	problemPath := filepath.Join(filepath.Dir(templatePath), "problem.pddl")
	if err := os.WriteFile(problemPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write problem file: %w", err)
	}

	return problemPath, nil
}

// hypothesisGoal renders a real_hyp.dat line as a PDDL goal body. Both the
// parenthesized and the bare comma-separated dialect are accepted.
func hypothesisGoal(raw string) string {
	line := strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])
	if strings.Contains(line, "(") {
		return strings.ReplaceAll(line, ",", " ")
	}

	var predicates []string
	for _, p := range strings.Split(line, ",") {
		if p = strings.TrimSpace(p); p != "" {
			predicates = append(predicates, "("+p+")")
		}
	}

	return strings.Join(predicates, " ")
}

// NormalizeActions canonicalizes raw grounder output: parentheses and
// underscores are stripped, multi-word action names are restored, actions
// repeating a parameter are dropped, and the result is uppercased,
// deduplicated and sorted.
func NormalizeActions(raw []string) []string {
	seen := map[string]bool{}
	var actions []string
	for _, line := range raw {
		action, ok := normalizeAction(line)
		if !ok || seen[action] {
			continue
		}
		seen[action] = true
		actions = append(actions, action)
	}
	sort.Strings(actions)

	return actions
}

func normalizeAction(line string) (string, bool) {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "()")
	line = strings.ReplaceAll(line, "_", " ")
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return "", false
	}

	for _, compound := range compoundActions {
		split := strings.ReplaceAll(compound, "_", " ")
		if line == split || strings.HasPrefix(line, split+" ") {
			line = compound + line[len(split):]
			break
		}
	}

	if hasDuplicateParameter(line) {
		return "", false
	}

	return strings.ToUpper(line), true
}

// hasDuplicateParameter reports whether any parameter appears twice. The
// first field is the action name and is ignored.
func hasDuplicateParameter(action string) bool {
	fields := strings.Fields(action)
	if len(fields) < 3 {
		return false
	}

	seen := map[string]bool{}
	for _, param := range fields[1:] {
		if seen[param] {
			return true
		}
		seen[param] = true
	}

	return false
}

// findFile locates a file by name anywhere under dir.
func findFile(dir, name string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan problem dir: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("problem dir is missing %s", name)
	}

	return found, nil
}

// Ensure ExecProvider implements the interface
var _ secondary.ActionSpaceProvider = (*ExecProvider)(nil)
