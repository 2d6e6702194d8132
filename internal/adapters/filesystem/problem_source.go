package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/secondary"
)

// Bundle file names every problem archive must carry.
const (
	obsFile      = "obs.dat"
	hypsFile     = "hyps.dat"
	realHypFile  = "real_hyp.dat"
	templateFile = "template.pddl"
)

var predicateRe = regexp.MustCompile(`\(([^()]+)\)`)

// BundleSource reads problem bundles laid out as
// <root>/<domain>/<hole>/<name>.{zip,tar.bz2}.
type BundleSource struct {
	root string
}

// NewBundleSource creates a problem source rooted at the corpus directory.
func NewBundleSource(root string) *BundleSource {
	return &BundleSource{root: root}
}

// List returns the bundle names for one domain and hole percentage in
// lexicographic order.
func (s *BundleSource) List(ctx context.Context, domain string, holePerc int) ([]string, error) {
	dir := s.holeDir(domain, holePerc)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list problem bundles in %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".tar.bz2") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

// Load extracts the named bundle into workDir and parses its contents.
func (s *BundleSource) Load(ctx context.Context, domain string, holePerc int, name, workDir string) (*models.Problem, error) {
	archivePath := filepath.Join(s.holeDir(domain, holePerc), name)
	if err := ExtractBundle(archivePath, workDir); err != nil {
		return nil, fmt.Errorf("failed to extract bundle %s: %w", name, err)
	}

	observations, err := readLines(workDir, obsFile)
	if err != nil {
		return nil, err
	}

	hypLines, err := readLines(workDir, hypsFile)
	if err != nil {
		return nil, err
	}
	hypotheses := make([][]string, 0, len(hypLines))
	for _, line := range hypLines {
		hypotheses = append(hypotheses, parsePredicateList(line))
	}

	realLines, err := readLines(workDir, realHypFile)
	if err != nil {
		return nil, err
	}
	if len(realLines) == 0 {
		return nil, fmt.Errorf("bundle %s: %s is empty", name, realHypFile)
	}
	realGoal := parsePredicateList(realLines[0])

	initState, err := readInitState(workDir)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", name, err)
	}

	return &models.Problem{
		Name:         bundleBaseName(name),
		InitState:    initState,
		Observations: observations,
		RealGoal:     realGoal,
		Hypotheses:   hypotheses,
	}, nil
}

func (s *BundleSource) holeDir(domain string, holePerc int) string {
	return filepath.Join(s.root, domain, strconv.Itoa(holePerc))
}

// bundleBaseName strips the archive extension from a bundle name.
func bundleBaseName(name string) string {
	name = strings.TrimSuffix(name, ".zip")
	name = strings.TrimSuffix(name, ".tar.bz2")
	return name
}

// locate finds a bundle member by base name. Some archives nest their
// files under a directory, so the search walks the whole workspace.
func locate(workDir, fileName string) (string, error) {
	var found string
	err := filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == fileName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan workspace: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("bundle is missing %s", fileName)
	}

	return found, nil
}

// readLines returns the non-empty trimmed lines of a bundle member.
func readLines(workDir, fileName string) ([]string, error) {
	path, err := locate(workDir, fileName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

// parsePredicateList splits one hypothesis line into its predicates. Lines
// come in two dialects: parenthesized "(on a b),(on b c)" and bare
// "on a b, on b c".
func parsePredicateList(line string) []string {
	if strings.Contains(line, "(") {
		matches := predicateRe.FindAllStringSubmatch(line, -1)
		predicates := make([]string, 0, len(matches))
		for _, m := range matches {
			predicates = append(predicates, strings.TrimSpace(m[1]))
		}
		return predicates
	}

	parts := strings.Split(line, ",")
	predicates := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			predicates = append(predicates, p)
		}
	}

	return predicates
}

// readInitState extracts the predicates of the (:init ...) section from
// the problem template.
func readInitState(workDir string) ([]string, error) {
	path, err := locate(workDir, templateFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", templateFile, err)
	}

	content := string(data)
	start := strings.Index(content, "(:init")
	if start < 0 {
		return nil, fmt.Errorf("%s has no (:init section", templateFile)
	}
	section := content[start+len("(:init"):]
	if end := strings.Index(section, "(:goal"); end >= 0 {
		section = section[:end]
	}

	matches := predicateRe.FindAllStringSubmatch(section, -1)
	predicates := make([]string, 0, len(matches))
	for _, m := range matches {
		predicates = append(predicates, strings.TrimSpace(m[1]))
	}

	return predicates, nil
}

// Ensure BundleSource implements the interface
var _ secondary.ProblemSource = (*BundleSource)(nil)
