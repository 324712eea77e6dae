package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fbsql/fbsql/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize fbsql configuration",
	Long:  `Interactive wizard to set up the database settings file.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	configPath := cfgFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	newCfg := config.DefaultConfig()
	entry := newCfg.Databases[config.DefaultAlias]

	engine, err := promptOptional(reader, "Database engine (firebird/sqlite) [firebird]: ", "firebird")
	if err != nil {
		return err
	}
	entry.Engine = engine

	name, err := promptOptional(reader, "Database file path or alias [/var/lib/firebird/data/app.fdb]: ", "/var/lib/firebird/data/app.fdb")
	if err != nil {
		return err
	}
	entry.Name = name

	if engine == "firebird" {
		host, err := promptOptional(reader, "Host [localhost]: ", "localhost")
		if err != nil {
			return err
		}
		entry.Host = host

		port, err := promptOptional(reader, "Port [3050]: ", "3050")
		if err != nil {
			return err
		}
		entry.Port, err = strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("port must be a number: %w", err)
		}

		user, err := promptOptional(reader, "User [SYSDBA]: ", "SYSDBA")
		if err != nil {
			return err
		}
		entry.User = user

		password, err := promptOptional(reader, "Password []: ", "")
		if err != nil {
			return err
		}
		entry.Password = password
	} else {
		entry.Host = ""
		entry.User = ""
	}
	newCfg.Databases[config.DefaultAlias] = entry

	if err := newCfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}
