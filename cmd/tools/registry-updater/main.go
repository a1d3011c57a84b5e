// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"matching-workers/internal/common/validation"
	"matching-workers/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/activities.json"

var implementationStatuses = map[string]bool{
	"planned":     true,
	"in-progress": true,
	"completed":   true,
	"verified":    true,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Inspect and maintain the matching activity registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", defaultRegistryPath, "Path to registry file")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the activities in the registry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listActivities(cmd.OutOrStdout(), registryPath)
			},
		},
		newAddCmd(&registryPath),
		newUpdateCmd(&registryPath),
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the registry file and compile its schemas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := validateRegistry(registryPath)
				if err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Write the embedded default registry to --path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				reg, err := registry.Default()
				if err != nil {
					return fmt.Errorf("failed to load embedded registry: %w", err)
				}
				if err := saveRegistry(reg, registryPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported embedded registry to %s\n", registryPath)
				return nil
			},
		},
	)
	return root
}

func newAddCmd(registryPath *string) *cobra.Command {
	var a registry.Activity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.TaskType == "" {
				a.TaskType = a.ID
			}
			a.InputSchema = map[string]interface{}{"type": "object"}
			a.OutputSchema = map[string]interface{}{"type": "object"}
			a.ErrorCodes = []string{"INVALID_INPUT"}
			a.Timeout = "10s"
			a.Tags = []string{a.Category}
			if !implementationStatuses[a.ImplementationStatus] {
				return fmt.Errorf("invalid status: %s", a.ImplementationStatus)
			}
			if err := addActivity(*registryPath, &a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&a.ID, "id", "", "Activity ID (e.g., recommend-jobs)")
	cmd.Flags().StringVar(&a.DisplayName, "displayName", "", "Display name (e.g., Recommend Jobs)")
	cmd.Flags().StringVar(&a.Description, "description", "", "Description")
	cmd.Flags().StringVar(&a.Category, "category", "matching", "Category")
	cmd.Flags().StringVar(&a.TaskType, "taskType", "", "Camunda task type (defaults to id)")
	cmd.Flags().StringVar(&a.Version, "version", "1.0.0", "Version")
	cmd.Flags().StringVar(&a.ImplementationStatus, "status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	for _, name := range []string{"id", "displayName", "description"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

func newUpdateCmd(registryPath *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update a field of an existing activity",
		Example: "  registry-updater update --id recommend-jobs --field timeout --value 45s",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := updateActivity(*registryPath, id, field, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, timeout, retries, ...)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

func listActivities(out io.Writer, path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
	}
	return tw.Flush()
}

func addActivity(path string, activity *registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{
			Version:    "1.0.0",
			Activities: []registry.Activity{},
		}
	}

	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	reg.Activities = append(reg.Activities, *activity)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Validate(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if !implementationStatuses[value] {
			return fmt.Errorf("invalid status: %s", value)
		}
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value: %s", value)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Validate(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

// validateRegistry checks structure, timeouts and that every schema compiles.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}

	for _, activity := range reg.Activities {
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return 0, fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
			}
		}
		if _, err := validation.NewValidator(activity.InputSchema); err != nil {
			return 0, fmt.Errorf("activity %s input schema: %w", activity.ID, err)
		}
		if _, err := validation.NewValidator(activity.OutputSchema); err != nil {
			return 0, fmt.Errorf("activity %s output schema: %w", activity.ID, err)
		}
	}
	return len(reg.Activities), nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
