// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/survey"
	"traveler-classifier/pkg/registry"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:           "registry-updater",
	Short:         "Maintain configs/activity-registry.json",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the registry against the worker error codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		known := bpmnCodes()
		problems := reg.Check(known)
		for _, p := range problems {
			fmt.Fprintln(cmd.ErrOrStderr(), " -", p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("registry validation failed with %d problem(s); known error codes: %s",
				len(problems), strings.Join(registry.SortedCodes(known), ", "))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var updateID, updateField, updateValue string

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update one field of an activity",
	Example: "  registry-updater update --id suggest-routes --field status --value planned",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		if err := reg.Update(updateID, updateField, updateValue); err != nil {
			return err
		}
		if err := registry.Save(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", updateID, updateField, updateValue)
		return nil
	},
}

var syncSchemaCmd = &cobra.Command{
	Use:   "sync-schema",
	Short: "Copy the survey response schema into the classify-traveler input schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		schema := survey.ResponseSchema()
		delete(schema, "$schema")
		if err := reg.SetInputProperty("classify-traveler", "responses", schema); err != nil {
			return err
		}
		if err := registry.Save(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d survey questions into %s\n", len(survey.Questions()), registryPath)
		return nil
	},
}

func bpmnCodes() map[string]bool {
	codes := make(map[string]bool, len(errors.BPMNErrorMapping))
	for _, bpmn := range errors.BPMNErrorMapping {
		codes[bpmn] = true
	}
	return codes
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	updateCmd.Flags().StringVar(&updateID, "id", "", "Activity ID to update")
	updateCmd.Flags().StringVar(&updateField, "field", "", "Field to update (status, version, displayName, description, timeout, retries)")
	updateCmd.Flags().StringVar(&updateValue, "value", "", "New value for the field")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("field")
	_ = updateCmd.MarkFlagRequired("value")

	rootCmd.AddCommand(validateCmd, updateCmd, syncSchemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
