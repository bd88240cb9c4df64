package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	forced     int
}

func (f *fakeMigrator) Up() error {
	return f.upErr
}

func (f *fakeMigrator) Down() error {
	return f.downErr
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = version
	return nil
}

// TestRun verifies each command and how migrate's sentinel errors are handled
func TestRun(t *testing.T) {
	boom := errors.New("connection refused")

	testCases := []struct {
		name    string
		m       *fakeMigrator
		command string
		args    []string
		wantErr bool
	}{
		{"Up", &fakeMigrator{}, "up", nil, false},
		{"Up no change", &fakeMigrator{upErr: migrate.ErrNoChange}, "up", nil, false},
		{"Up failure", &fakeMigrator{upErr: boom}, "up", nil, true},
		{"Down no change", &fakeMigrator{downErr: migrate.ErrNoChange}, "down", nil, false},
		{"Down failure", &fakeMigrator{downErr: boom}, "down", nil, true},
		{"Version", &fakeMigrator{version: 1}, "version", nil, false},
		{"Version none applied", &fakeMigrator{versionErr: migrate.ErrNilVersion}, "version", nil, false},
		{"Force", &fakeMigrator{}, "force", []string{"1"}, false},
		{"Force without version", &fakeMigrator{}, "force", nil, true},
		{"Force bad version", &fakeMigrator{}, "force", []string{"one"}, true},
		{"Unknown", &fakeMigrator{}, "sideways", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.m, tc.command, tc.args)
			if (err != nil) != tc.wantErr {
				t.Errorf("run(%s) error = %v, wantErr %v", tc.command, err, tc.wantErr)
			}
		})
	}
}

// TestRunForceVersion verifies the parsed version reaches migrate
func TestRunForceVersion(t *testing.T) {
	m := &fakeMigrator{}
	if err := run(m, "force", []string{"3"}); err != nil {
		t.Fatalf("run(force) failed: %v", err)
	}
	if m.forced != 3 {
		t.Errorf("forced = %d, want 3", m.forced)
	}
}
