// resmgr is a maintenance tool for local processor resources: it lists,
// inspects and resolves the resource files processors look up at runtime.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocrdkit/internal/config"
	"ocrdkit/internal/resmgr"
)

var (
	// Global flags
	databasePath string
	moduleDir    string
	manager      *resmgr.Manager
	database     resmgr.Database
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "resmgr",
	Short: "Manage local OCR-D processor resources",
	Long: `Resmgr inspects the resource locations OCR-D processors read at runtime:
the current directory, the processor's PATH-style environment variable, the
XDG data location and the system location, plus the user resource database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		manager = resmgr.NewManager()
		manager.ModuleDir = moduleDir
		var err error
		database, err = resmgr.LoadDatabase(manager.FS, databasePath)
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list EXECUTABLE",
	Short: "List resources known for a processor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		executable := args[0]

		installed := manager.ListAll(executable)
		if len(installed) > 0 {
			fmt.Println("Installed resources:")
			for _, name := range installed {
				fmt.Printf("  %s\n", name)
			}
		}

		known := database.Find(executable, "")
		if len(known) > 0 {
			fmt.Println("Known downloadable resources:")
			for _, r := range known {
				fmt.Printf("  %s  %s\n", r.Name, r.URL)
			}
		}

		if len(installed) == 0 && len(known) == 0 {
			fmt.Printf("No resources known for %s\n", executable)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show EXECUTABLE NAME",
	Short: "Show details of a single resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		executable, name := args[0], args[1]

		if path := manager.Resolve(executable, name); path != "" {
			fmt.Printf("Path:       %s\n", path)
			fmt.Printf("Media type: %s\n", manager.MediaType(path))
		}
		for _, r := range database.Find(executable, name) {
			fmt.Printf("Name:        %s\n", r.Name)
			if r.Description != "" {
				fmt.Printf("Description: %s\n", r.Description)
			}
			if r.URL != "" {
				fmt.Printf("URL:         %s\n", r.URL)
			}
			if r.Size > 0 {
				fmt.Printf("Size:        %d\n", r.Size)
			}
			return nil
		}
		if manager.Resolve(executable, name) == "" {
			return fmt.Errorf("resource %s not known for %s", name, executable)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve EXECUTABLE NAME",
	Short: "Print the resolved path of a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := manager.Resolve(args[0], args[1])
		if path == "" {
			return fmt.Errorf("resource %s not found for %s", args[1], args[0])
		}
		fmt.Println(path)
		return nil
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates EXECUTABLE NAME",
	Short: "Print all candidate locations for a resource, in lookup order",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		for _, path := range manager.CandidatePaths(args[0], args[1]) {
			fmt.Println(path)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.LoadEnv()
	rootCmd.PersistentFlags().StringVar(&databasePath, "database", resmgr.UserListPath(), "Path of the user resource database")
	rootCmd.PersistentFlags().StringVar(&moduleDir, "module-dir", "", "Additional module directory to search")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func main() {
	Execute()
}
