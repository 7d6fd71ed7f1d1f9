package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath — путь к файлу конфигурации, если не передан аргументом и не задан IST_CFG.
const DefaultPath = "cfg/FmtBroker.cfg"

// ResolvePath — явный аргумент, затем $IST_CFG/FmtBroker.cfg, затем DefaultPath.
func ResolvePath(arg string) string {
	if arg = strings.TrimSpace(arg); arg != "" {
		return arg
	}
	if dir := os.Getenv("IST_CFG"); dir != "" {
		return filepath.Join(dir, "FmtBroker.cfg")
	}
	return DefaultPath
}

// ReadFile — читает key=value файл.
func ReadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrConfig, path, err)
	}
	defer f.Close()

	props, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}
	return props, nil
}

// Parse — построчный разбор: пустые строки и строки, начинающиеся с '#' или ';', пропускаются;
// строки без '=' игнорируются; ключ и значение обрезаются; при повторе побеждает последний.
func Parse(r io.Reader) (map[string]string, error) {
	props := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		props[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return props, nil
}
