package platforms

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
)

// DefaultSolcPath is the compiler executable used when a platform config does not name one.
const DefaultSolcPath = "solc"

var (
	// solcVersionRegex finds the release version in `solc --version` output.
	solcVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+`)

	// pragmaSolidityRegex captures the version expression of each `pragma solidity ...;` directive.
	pragmaSolidityRegex = regexp.MustCompile(`pragma\s+solidity\s+([^;]+);`)

	// pragmaComparatorRegex matches one comparator of a pragma version expression, e.g. "^0.8.6" or ">= 0.7.0".
	pragmaComparatorRegex = regexp.MustCompile(`(\^|~|>=|<=|>|<|=)?\s*v?\d+(\.(\d+|x|\*)){0,2}`)

	// lineCommentRegex and blockCommentRegex strip comments so commented out pragmas are ignored.
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// GetSystemSolcVersion runs `<solcPath> --version` and parses the compiler version from its output. An empty
// solcPath uses DefaultSolcPath.
func GetSystemSolcVersion(solcPath string) (*semver.Version, error) {
	if solcPath == "" {
		solcPath = DefaultSolcPath
	}

	out, err := exec.Command(solcPath, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("error while executing %s:\nOUTPUT:\n%s\nERROR: %s\n", solcPath, string(out), err.Error())
	}

	versionStr := solcVersionRegex.FindString(string(out))
	if versionStr == "" {
		return nil, errors.New("could not parse solc version using 'solc --version'")
	}
	return semver.NewVersion(versionStr)
}

// pragmaToConstraint rewrites a Solidity version expression into the syntax semver.NewConstraint accepts:
// comparators within a range are joined by commas and ranges by "||".
func pragmaToConstraint(pragma string) (string, error) {
	ranges := make([]string, 0)
	for _, group := range strings.Split(pragma, "||") {
		comparators := pragmaComparatorRegex.FindAllString(group, -1)
		if len(comparators) == 0 {
			return "", fmt.Errorf("could not parse version range '%s'", strings.TrimSpace(group))
		}
		for i, comparator := range comparators {
			comparators[i] = expandCaret(strings.ReplaceAll(strings.Join(strings.Fields(comparator), ""), "v", ""))
		}
		ranges = append(ranges, strings.Join(comparators, ", "))
	}
	return strings.Join(ranges, " || "), nil
}

// expandCaret rewrites a caret comparator into an explicit range with npm semantics, which Solidity follows: the
// left-most non-zero component may not change. semver v1 only pins the major version, so ^0.4.0 would otherwise
// accept 0.8.x. Other comparators are returned unchanged.
func expandCaret(comparator string) string {
	if !strings.HasPrefix(comparator, "^") {
		return comparator
	}

	var parts []int
	for _, part := range strings.Split(comparator[1:], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			// Wildcards end the version.
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return comparator
	}

	lower := [3]int{}
	copy(lower[:], parts)
	var upper [3]int
	switch {
	case lower[0] > 0 || len(parts) == 1:
		upper = [3]int{lower[0] + 1, 0, 0}
	case lower[1] > 0 || len(parts) == 2:
		upper = [3]int{0, lower[1] + 1, 0}
	default:
		upper = [3]int{0, 0, lower[2] + 1}
	}
	return fmt.Sprintf(">=%d.%d.%d, <%d.%d.%d", lower[0], lower[1], lower[2], upper[0], upper[1], upper[2])
}

// CheckPragmaCompatibility verifies that version satisfies every `pragma solidity` directive in source. Sources
// without a pragma are always compatible.
func CheckPragmaCompatibility(source string, version *semver.Version) error {
	stripped := blockCommentRegex.ReplaceAllString(source, "")
	stripped = lineCommentRegex.ReplaceAllString(stripped, "")

	for _, match := range pragmaSolidityRegex.FindAllStringSubmatch(stripped, -1) {
		expression := strings.TrimSpace(match[1])
		constraintStr, err := pragmaToConstraint(expression)
		if err != nil {
			return fmt.Errorf("unsupported pragma 'solidity %s': %w", expression, err)
		}
		constraint, err := semver.NewConstraint(constraintStr)
		if err != nil {
			return fmt.Errorf("unsupported pragma 'solidity %s': %w", expression, err)
		}
		if !constraint.Check(version) {
			return fmt.Errorf("source requires solidity %s but solc %s is installed", expression, version.String())
		}
	}
	return nil
}
