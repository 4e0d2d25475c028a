//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "user-api"
	ConsumerName = "user-portal"

	StateUsersBaseline = "users baseline"
	StateUserExists    = "user 7d9f8e64 exists"
	StateUserMissing   = "no user under the requested id"
)

const (
	// ExistingUserID is seeded by the provider state handlers.
	ExistingUserID = "7d9f8e64-2f1a-4c3b-9b2d-5a6e7f801234"
	// MissingUserID is never seeded.
	MissingUserID = "00000000-0000-4000-8000-000000000000"
)

// UUIDPattern matches the canonical textual form of a GUID.
const UUIDPattern = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"

// ExampleUserPayload provides stable test data for pact interactions.
func ExampleUserPayload() map[string]any {
	return map[string]any{
		"login":     "pactuser",
		"firstName": "Pact",
		"lastName":  "User",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the user portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to resolve caller for project root")
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}
