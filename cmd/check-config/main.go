package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
)

// CLI-приложение для проверки файла конфигурации консьюмера.
func main() {
	inputPath := flag.String("in", "", "path to key=value config. If empty, $IST_CFG/FmtBroker.cfg or "+config.DefaultPath)
	applyDefaults := flag.Bool("defaults", false, "fill group.id and auto.offset.reset when absent")
	flag.Parse()

	path := config.ResolvePath(*inputPath)
	props, err := config.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(1)
	}
	if *applyDefaults {
		props = config.ApplyDefaults(props)
	}

	cfg, err := config.Validate(props)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %s: %v\n", path, err)
		os.Exit(1)
	}

	normalized := cfg.Properties()
	for _, k := range config.SortedKeys(normalized) {
		fmt.Fprintf(os.Stdout, "%s=%s\n", k, mask(k, normalized[k]))
	}
	fmt.Fprintf(os.Stderr, "config ok (%s, %d keys)\n", path, len(normalized))
}

// mask — секреты из passthrough-ключей (sasl.password и т.п.) не печатаем.
func mask(key, value string) string {
	low := strings.ToLower(key)
	if strings.Contains(low, "password") || strings.Contains(low, "secret") {
		return "******"
	}
	return value
}
