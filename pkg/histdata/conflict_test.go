package histdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConflictTestSuite struct {
	suite.Suite
	dir string
}

func TestConflictSuite(t *testing.T) {
	suite.Run(t, new(ConflictTestSuite))
}

func (suite *ConflictTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConflictTestSuite) touch(path string) {
	suite.Require().NoError(os.WriteFile(path, []byte("x"), 0o644))
}

func (suite *ConflictTestSuite) TestMissingTargetProceeds() {
	resolver := NewConflictResolver(AutoCancel)

	path, proceed, err := resolver.Resolve(filepath.Join(suite.dir, "missing.csv"), false)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(filepath.Join(suite.dir, "missing.csv"), path)
}

func (suite *ConflictTestSuite) TestOverwriteFlagSkipsPolicy() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	// The policy would cancel, but the explicit flag wins.
	resolver := NewConflictResolver(AutoCancel)

	path, proceed, err := resolver.Resolve(target, true)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(target, path)
}

func (suite *ConflictTestSuite) TestAutoOverwrite() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	resolver := NewConflictResolver(AutoOverwrite)

	path, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(target, path)
}

func (suite *ConflictTestSuite) TestAutoCancel() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	resolver := NewConflictResolver(AutoCancel)

	_, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.False(proceed)
}

func (suite *ConflictTestSuite) TestAutoRename() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	resolver := NewConflictResolver(AutoRename)
	resolver.Now = func() time.Time {
		return time.Date(2024, 1, 15, 16, 30, 45, 0, time.UTC)
	}

	path, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(filepath.Join(suite.dir, "out_20240115_163045.csv"), path)
}

func (suite *ConflictTestSuite) TestAutoRenameTiebreak() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)
	suite.touch(filepath.Join(suite.dir, "out_20240115_163045.csv"))
	suite.touch(filepath.Join(suite.dir, "out_20240115_163045_01.csv"))

	resolver := NewConflictResolver(AutoRename)
	resolver.Now = func() time.Time {
		return time.Date(2024, 1, 15, 16, 30, 45, 0, time.UTC)
	}

	path, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(filepath.Join(suite.dir, "out_20240115_163045_02.csv"), path)
}

func (suite *ConflictTestSuite) TestInteractivePolicy() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	var promptedPath string

	var promptedInfo os.FileInfo

	resolver := NewConflictResolver(Interactive(func(path string, info os.FileInfo) (ConflictDecision, error) {
		promptedPath = path
		promptedInfo = info

		return DecisionOverwrite, nil
	}))

	path, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.True(proceed)
	suite.Equal(target, path)
	suite.Equal(target, promptedPath)
	suite.NotNil(promptedInfo)
}

func (suite *ConflictTestSuite) TestInteractiveCancel() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.touch(target)

	resolver := NewConflictResolver(Interactive(func(string, os.FileInfo) (ConflictDecision, error) {
		return DecisionCancel, nil
	}))

	_, proceed, err := resolver.Resolve(target, false)
	suite.NoError(err)
	suite.False(proceed)
}
