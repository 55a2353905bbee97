package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/catalog"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the job roles known to the skill catalog",
	Long: `List every job role the skill catalog can score against, with the
number of required skills per role. Unknown roles passed to analyze fall
back to the default role.`,
	RunE: runRoles,
}

var rolesVerbose bool

func init() {
	rolesCmd.Flags().BoolVarP(&rolesVerbose, "verbose", "v", false, "Show the required skills for each role")
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cat := catalog.New()
	if cfg.Catalog.File != "" {
		if err := cat.LoadFile(cfg.Catalog.File); err != nil {
			return fmt.Errorf("failed to load catalog file: %w", err)
		}
		fmt.Printf("Catalog file: %s\n\n", cfg.Catalog.File)
	}

	for _, role := range cat.Roles() {
		_, skills, _ := cat.Lookup(role)
		marker := ""
		if role == catalog.DefaultRole {
			marker = " (default)"
		}
		fmt.Printf("%s%s - %d skills\n", role, marker, len(skills))
		if rolesVerbose {
			for _, skill := range skills {
				fmt.Printf("  - %s\n", skill)
			}
		}
	}

	return nil
}
