package main

import (
	"log"
	"os"

	"github.com/wbm-mkopp/phpls/internal/lsp"
	"github.com/wbm-mkopp/phpls/internal/php"
)

var version = "dev"

func toPHPLogLevel(l LogLevel) php.LogLevel {
	switch l {
	case LogLevelError:
		return php.LogLevelError
	case LogLevelDebug:
		return php.LogLevelDebug
	default:
		return php.LogLevelInfo
	}
}

func main() {
	log.SetFlags(0)
	php.SetLogLevel(toPHPLogLevel(resolveLogLevel(os.Getenv("PHPLS_LOG_LEVEL"))))

	projectRoot := workspaceRootFromEnv()
	log.Printf("phpls version %s, workspace root: %s", version, projectRoot)

	ws, err := php.NewWorkspace(projectRoot)
	if err != nil {
		log.Fatalf("failed to initialize workspace: %v", err)
	}
	defer ws.Close()

	server := lsp.NewServer(ws)

	if err := server.Start(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("lsp server error: %v", err)
	}
}
