// 通知サービスの開発用CLI。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/pushnotify/internal/notifyctl"
)

// version はビルド時に -ldflags で設定される。
var version = "dev"

func main() {
	if err := notifyctl.NewApp(version).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
