package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/jsast/internal/config"
	"github.com/ludo-technologies/jsast/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a jsast configuration file",
		Long: `Generate a documented jsast configuration file with sensible defaults.

By default, creates .jsast.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create .jsast.yaml in current directory
  jsast init

  # Custom output path
  jsast init --output tools/jsast.yaml

  # Presets for a React project
  jsast init --project react

  # Overwrite existing file
  jsast init --force

  # Generate smaller config with essential options only
  jsast init --minimal

  # Interactive setup wizard
  jsast init --interactive
  jsast init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("output", "o", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().StringP("project", "p", string(config.ProjectTypeGeneric),
		"Project preset: generic, react, vue, node")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("output")
	project, _ := cmd.Flags().GetString("project")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	opts := config.DefaultTemplateOptions()
	opts.ProjectType = config.ProjectType(project)
	if _, ok := config.GetProjectPresets()[opts.ProjectType]; !ok {
		return fmt.Errorf("unknown project type %q (want generic, react, vue or node)", project)
	}

	if interactive {
		var err error
		opts, configPath, err = runInteractiveSetup(opts, configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(opts)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'jsast parse .' to parse your project.")

	return nil
}

func runInteractiveSetup(opts config.TemplateOptions, defaultConfigPath string) (config.TemplateOptions, string, error) {
	fmt.Println()
	fmt.Println("jsast Configuration Setup")
	fmt.Println("=========================")
	fmt.Println()

	projectTypes := []struct {
		Label string
		Value config.ProjectType
	}{
		{"Generic JavaScript/TypeScript", config.ProjectTypeGeneric},
		{"React/Next.js", config.ProjectTypeReact},
		{"Vue/Nuxt", config.ProjectTypeVue},
		{"Node.js Backend", config.ProjectTypeNodeBackend},
	}

	projectPrompt := promptui.Select{
		Label: "What type of project is this?",
		Items: projectTypes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("project selection cancelled: %w", err)
	}
	opts.ProjectType = projectTypes[projectIdx].Value

	fmt.Println()

	choices := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"Pre-order", "Depth-first, parents before children", constants.WalkOrderPre},
		{"Level order", "Breadth-first, one depth at a time", constants.WalkOrderLevel},
	}
	describedTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	orderPrompt := promptui.Select{
		Label:     "Default walk order?",
		Items:     choices,
		Templates: describedTemplates,
	}
	orderIdx, _, err := orderPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("walk order selection cancelled: %w", err)
	}
	opts.WalkOrder = choices[orderIdx].Value

	fmt.Println()

	formats := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"Text", "Colored report for terminals", constants.OutputFormatText},
		{"Table", "Aligned tables", constants.OutputFormatTable},
		{"JSON", "For scripts and CI", constants.OutputFormatJSON},
		{"YAML", "For scripts and humans", constants.OutputFormatYAML},
	}
	formatPrompt := promptui.Select{
		Label:     "Default output format?",
		Items:     formats,
		Templates: describedTemplates,
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("format selection cancelled: %w", err)
	}
	opts.Format = formats[formatIdx].Value

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("output path input cancelled: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return opts, outputPath, nil
}
