package main

// ============================================================================
// 職責說明：
// 1. CLI 應用程式入口點
// 2. 初始化並執行 CLI 命令
// 3. 處理頂層錯誤與 panic recovery
//
// main.go 保持簡潔，所有邏輯在 internal/cli
// ============================================================================

import (
	"fmt"
	"os"

	"github.com/ChuLiYu/cpusched/internal/cli"
)

// 由 CI 注入：go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse HEAD)"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", r)
			os.Exit(2)
		}
	}()

	rootCmd := cli.BuildCLI()
	if version != "dev" {
		rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
