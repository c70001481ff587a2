package display

import (
	"fmt"
	"os"

	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____   _             _            ____  ____   ____
|  _ \ | |__    ___  | |_   ___   / ___||  _ \ / ___|
| |_) || '_ \  / _ \ | __| / _ \ | |  _ | |_) |\___ \
|  __/ | | | || (_) || |_ | (_) || |_| ||  __/  ___) |
|_|    |_| |_| \___/  \__| \___/  \____||_|    |____/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
