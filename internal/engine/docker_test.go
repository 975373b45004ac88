package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sruthykbenni/kelly/internal/testutil"
)

func TestDockerConfig_Defaults(t *testing.T) {
	if DefaultContainerName != "kelly-ollama" {
		t.Errorf("unexpected default container name: %s", DefaultContainerName)
	}
	if DefaultImage != "ollama/ollama:latest" {
		t.Errorf("unexpected default image: %s", DefaultImage)
	}
	if DefaultPort != "11434" {
		t.Errorf("unexpected default port: %s", DefaultPort)
	}
}

func TestGenerateContainerName(t *testing.T) {
	tests := []struct {
		name     string
		homePath string
	}{
		{name: "typical home path", homePath: "/home/user/.kelly"},
		{name: "different home path", homePath: "/Users/sruthy/.kelly"},
		{name: "empty path", homePath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateContainerName(tt.homePath)

			if !strings.HasPrefix(got, ContainerNamePrefix) {
				t.Errorf("GenerateContainerName() = %q, want prefix %q", got, ContainerNamePrefix)
			}

			// Prefix plus 8 hex chars
			wantLen := len(ContainerNamePrefix) + 8
			if len(got) != wantLen {
				t.Errorf("GenerateContainerName() length = %d, want %d", len(got), wantLen)
			}
		})
	}
}

func TestGenerateContainerName_Deterministic(t *testing.T) {
	homePath := "/Users/test/.kelly"

	first := GenerateContainerName(homePath)
	second := GenerateContainerName(homePath)

	if first != second {
		t.Errorf("GenerateContainerName() not deterministic: %q != %q", first, second)
	}
}

func TestGenerateContainerName_UniquePerPath(t *testing.T) {
	name1 := GenerateContainerName("/home/user1/.kelly")
	name2 := GenerateContainerName("/home/user2/.kelly")

	if name1 == name2 {
		t.Errorf("GenerateContainerName() should produce unique names: %q == %q", name1, name2)
	}
}

func TestNewDockerManager_ContainerNaming(t *testing.T) {
	tests := []struct {
		name         string
		cfg          DockerConfig
		wantContName string
	}{
		{
			name:         "explicit container name takes precedence",
			cfg:          DockerConfig{ContainerName: "my-custom-container", HomePath: "/home/test/.kelly"},
			wantContName: "my-custom-container",
		},
		{
			name:         "generates name from home path when no explicit name",
			cfg:          DockerConfig{HomePath: "/home/test/.kelly"},
			wantContName: GenerateContainerName("/home/test/.kelly"),
		},
		{
			name:         "falls back to default when no name or home path",
			cfg:          DockerConfig{},
			wantContName: DefaultContainerName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, err := NewDockerManager(tt.cfg)
			if err != nil {
				t.Fatalf("NewDockerManager() error = %v", err)
			}
			defer mgr.Close()

			if mgr.ContainerName() != tt.wantContName {
				t.Errorf("ContainerName() = %q, want %q", mgr.ContainerName(), tt.wantContName)
			}
		})
	}
}

func TestContainerStatus_Values(t *testing.T) {
	statuses := []ContainerStatus{
		StatusRunning,
		StatusStopped,
		StatusNotFound,
		StatusUnhealthy,
		StatusStarting,
	}

	seen := make(map[ContainerStatus]bool)
	for _, s := range statuses {
		if seen[s] {
			t.Errorf("duplicate status value: %s", s)
		}
		seen[s] = true
	}
}

func TestDockerManager_Integration(t *testing.T) {
	// Register cleanup for test containers
	_ = testutil.DockerClient(t)

	ctx := context.Background()
	modelsPath := t.TempDir()
	containerName := testutil.UniqueContainerName(t, "ollama")
	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}

	mgr, err := NewDockerManager(DockerConfig{
		ContainerName: containerName,
		ModelsPath:    modelsPath,
		HostPort:      port,
		Labels:        testutil.ContainerLabels(t),
	})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	defer mgr.Close()

	t.Run("Start", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusRunning {
			t.Errorf("expected status running, got %s", status)
		}
	})

	t.Run("Start_AlreadyRunning", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Errorf("Start() on running container should succeed: %v", err)
		}
	})

	t.Run("ValidateExisting", func(t *testing.T) {
		if err := mgr.ValidateExisting(ctx); err != nil {
			t.Errorf("ValidateExisting() error = %v", err)
		}
	})

	t.Run("Stop", func(t *testing.T) {
		if err := mgr.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}

		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusStopped {
			t.Errorf("expected status stopped, got %s", status)
		}
	})

	t.Run("Stop_AlreadyStopped", func(t *testing.T) {
		if err := mgr.Stop(ctx); err != nil {
			t.Errorf("Stop() on stopped container should succeed: %v", err)
		}
	})

	t.Run("Restart", func(t *testing.T) {
		if err := mgr.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusRunning {
			t.Errorf("expected status running, got %s", status)
		}
	})

	t.Run("Logs", func(t *testing.T) {
		logs, err := mgr.Logs(ctx, "10")
		if err != nil {
			t.Fatalf("Logs() error = %v", err)
		}
		if len(logs) == 0 {
			t.Error("expected some log output")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := mgr.Remove(ctx); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}

		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusNotFound {
			t.Errorf("expected status not_found, got %s", status)
		}
	})

	t.Run("Remove_NotFound", func(t *testing.T) {
		if err := mgr.Remove(ctx); err != nil {
			t.Errorf("Remove() on non-existent container should succeed: %v", err)
		}
	})

	t.Run("Logs_NotFound", func(t *testing.T) {
		_, err := mgr.Logs(ctx, "10")
		if err == nil {
			t.Error("expected error for non-existent container")
		}
	})
}

func TestDockerManager_ContextCancellation(t *testing.T) {
	// Register cleanup for test containers
	_ = testutil.DockerClient(t)

	modelsPath := t.TempDir()
	containerName := testutil.UniqueContainerName(t, "cancel")
	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}

	mgr, err := NewDockerManager(DockerConfig{
		ContainerName: containerName,
		ModelsPath:    modelsPath,
		HostPort:      port,
		Labels:        testutil.ContainerLabels(t),
	})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	defer mgr.Close()

	t.Run("Start_Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		err := mgr.Start(ctx)
		if err == nil {
			_ = mgr.Remove(context.Background())
			t.Error("expected error from cancelled context")
		}
	})

	t.Run("WaitReady_Timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
		defer cancel()

		err := mgr.WaitReady(ctx, 1*time.Millisecond)
		if err == nil {
			t.Error("expected timeout error")
		}
	})
}
