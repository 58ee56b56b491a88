// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"os"
	"testing"
)

// PathOfTempFile returns path of a new temporary file
func PathOfTempFile(dirName string) (string, error) {
	tempFile, err := os.CreateTemp(os.TempDir(), dirName)
	if err != nil {
		return "", err
	}
	return tempFile.Name(), tempFile.Close()
}

// CleanupPath detects the existence of test DB file and removes it if found
func CleanupPath(t *testing.T, path string) {
	if _, err := os.Stat(path); err == nil && os.RemoveAll(path) != nil {
		t.Error("Fail to remove testDB file")
	}
}

// TempDBPath returns a fresh temporary DB path which is removed when the test ends
func TempDBPath(t *testing.T, name string) string {
	path, err := PathOfTempFile(name)
	if err != nil {
		t.Fatal(err)
	}
	CleanupPath(t, path)
	t.Cleanup(func() { CleanupPath(t, path) })
	return path
}
