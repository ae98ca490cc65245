package histdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ConflictDecision is the outcome of a conflict policy for an existing path.
type ConflictDecision int

const (
	DecisionOverwrite ConflictDecision = iota
	DecisionRename
	DecisionCancel
)

// ConflictPolicy decides what to do when the target output path already
// exists. info describes the existing file.
type ConflictPolicy interface {
	Decide(path string, info os.FileInfo) (ConflictDecision, error)
}

// autoPolicy returns a fixed decision without consulting anyone.
type autoPolicy ConflictDecision

func (p autoPolicy) Decide(string, os.FileInfo) (ConflictDecision, error) {
	return ConflictDecision(p), nil
}

// AutoOverwrite, AutoRename and AutoCancel are non-interactive policies.
// Tests and headless runs inject these to avoid blocking on input.
var (
	AutoOverwrite ConflictPolicy = autoPolicy(DecisionOverwrite)
	AutoRename    ConflictPolicy = autoPolicy(DecisionRename)
	AutoCancel    ConflictPolicy = autoPolicy(DecisionCancel)
)

// PromptFunc asks a human to pick a decision for an existing path.
type PromptFunc func(path string, info os.FileInfo) (ConflictDecision, error)

// Interactive wraps a prompt function as a ConflictPolicy.
func Interactive(prompt PromptFunc) ConflictPolicy {
	return interactivePolicy{prompt: prompt}
}

type interactivePolicy struct {
	prompt PromptFunc
}

func (p interactivePolicy) Decide(path string, info os.FileInfo) (ConflictDecision, error) {
	return p.prompt(path, info)
}

// ConflictResolver decides whether and where an output file may be written.
// It is the only component that probes the filesystem; everything upstream is
// a pure function of its inputs. Now and Exists are injectable for tests and
// default to the real clock and filesystem.
type ConflictResolver struct {
	Policy ConflictPolicy
	Now    func() time.Time
	Exists func(path string) bool
}

// NewConflictResolver returns a resolver backed by the real clock and
// filesystem.
func NewConflictResolver(policy ConflictPolicy) ConflictResolver {
	return ConflictResolver{
		Policy: policy,
		Now:    time.Now,
		Exists: fileExists,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// Resolve returns the path to write to and whether the write should proceed.
// A missing target or an explicit overwrite flag short-circuits the policy.
// A cancel decision returns proceed=false and the caller must not write.
func (r ConflictResolver) Resolve(path string, overwrite bool) (string, bool, error) {
	if overwrite || !r.exists(path) {
		return path, true, nil
	}

	// info may be nil when the existence probe is injected in tests;
	// policies must tolerate that.
	info, _ := os.Stat(path)

	decision, err := r.Policy.Decide(path, info)
	if err != nil {
		return path, false, err
	}

	switch decision {
	case DecisionOverwrite:
		return path, true, nil
	case DecisionRename:
		return r.uniquePath(path), true, nil
	default:
		return path, false, nil
	}
}

// uniquePath appends a timestamp suffix to the path, then numeric tiebreaks
// (_01, _02, ...) until the candidate does not exist. Repeated runs within
// the same second make the tiebreak necessary.
func (r ConflictResolver) uniquePath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	stamp := r.now().Format("20060102_150405")

	candidate := fmt.Sprintf("%s_%s%s", base, stamp, ext)
	for counter := 1; r.exists(candidate); counter++ {
		candidate = fmt.Sprintf("%s_%s_%02d%s", base, stamp, counter, ext)
	}

	return candidate
}

func (r ConflictResolver) exists(path string) bool {
	if r.Exists != nil {
		return r.Exists(path)
	}

	return fileExists(path)
}

func (r ConflictResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}

	return time.Now()
}
