// Package main provides the modelcast CLI application entry point.
// modelcast is a command-line assistant for configuring LLM providers,
// discovering their model catalogs, and sending one-shot completions.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelcast/internal/config"
	"modelcast/internal/logger"
	"modelcast/internal/services"
	"modelcast/internal/version"
	"modelcast/pkg/types"
)

var (
	logLevel string
	logFile  string
	cfgFile  string

	appConfig *config.Config

	userConfigService    *services.UserConfigService
	configurationService *services.ConfigurationService
	registryService      *services.ProviderRegistryService
	clientFactoryService *services.ClientFactoryService
	markdownService      *services.MarkdownService
)

var (
	providerNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fieldLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "modelcast",
	Short: "modelcast - LLM provider configuration and model discovery",
	Long: `modelcast manages declarative LLM provider configurations, discovers the
live model catalogs providers expose, and sends one-shot chat completions.
Builtin providers can be overridden or extended via providers.toml in the
modelcast config directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers",
	Long: `List every configured provider, builtin and user-defined, in registry
order. Use --details for the full resolved descriptor of each provider.`,
	RunE: runProviders,
}

var modelsCmd = &cobra.Command{
	Use:   "models <provider>",
	Short: "List the models a provider currently serves",
	Long: `Fetch the live model catalog from the named provider's API and print
one model id per line, in the order the provider reports them.`,
	Args: cobra.ExactArgs(1),
	RunE: runModels,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect modelcast configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with credentials redacted",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config directory path",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(userConfigService.ConfigDir())
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a one-shot prompt to a provider and print the response",
	Long: `Send a single prompt to the selected provider and model, then print the
completion. Responses are rendered as markdown unless --plain is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("modelcast %s\n", version.GetInfo().String())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}

	providersCmd.Flags().Bool("details", false, "Show full provider descriptors")
	modelsCmd.Flags().String("api-key", "", "Credential to use instead of the configured one")
	askCmd.Flags().String("provider", "", "Provider to send the prompt to")
	askCmd.Flags().String("model", "", "Model id to use")
	askCmd.Flags().Bool("plain", false, "Print the raw response without markdown rendering")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initApp()
	}
}

// initApp loads settings, configures logging and wires the service graph.
// Services are registered in dependency order: the provider registry resolves
// during InitializeAll and needs the catalog and user config loaded first.
func initApp() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	effectiveLevel := logLevel
	if effectiveLevel == "" {
		effectiveLevel = cfg.LogLevel
	}
	effectiveFile := logFile
	if effectiveFile == "" {
		effectiveFile = cfg.LogFile
	}
	if err := logger.Configure(effectiveLevel, effectiveFile); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	userConfigService = services.NewUserConfigService()
	catalogService := services.NewProviderCatalogService()
	httpService := services.NewHTTPRequestService()
	httpService.SetTimeout(cfg.DiscoveryTimeout)
	discoveryService := services.NewModelDiscoveryService(httpService)
	configurationService = services.NewConfigurationService(userConfigService)
	registryService = services.NewProviderRegistryService(catalogService, userConfigService, discoveryService)
	clientFactoryService = services.NewClientFactoryService()
	markdownService = services.NewMarkdownService()

	registry := services.NewRegistry()
	for _, svc := range []types.Service{
		userConfigService,
		catalogService,
		httpService,
		discoveryService,
		configurationService,
		registryService,
		clientFactoryService,
		markdownService,
	} {
		if err := registry.RegisterService(svc); err != nil {
			return err
		}
	}
	services.SetGlobalRegistry(registry)

	return registry.InitializeAll()
}

func runProviders(cmd *cobra.Command, _ []string) error {
	details, _ := cmd.Flags().GetBool("details")

	names, err := registryService.ProviderNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		spec, err := registryService.GetProvider(name)
		if err != nil {
			return err
		}

		if !details {
			fmt.Println(name)
			continue
		}

		fmt.Println(providerNameStyle.Render(name))
		printField("display_name", spec.DisplayName)
		printField("base_url", spec.BaseURL)
		printField("models_endpoint", spec.ModelsEndpoint)
		printField("models_response_path", spec.ModelsResponsePath)
		printField("model_id_key", spec.ModelIDKey)
		printField("auth_required", fmt.Sprintf("%t", spec.AuthRequired))
		if spec.AuthRequired {
			printField("auth_header", spec.EffectiveAuthHeader())
			printField("auth_header_prefix", spec.AuthHeaderPrefix)
		}
		printField("client_type", spec.ClientType)
		if spec.Description != "" {
			printField("description", spec.Description)
		}
		fmt.Println()
	}

	return nil
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %s %s\n", fieldLabelStyle.Render(label+":"), value)
}

func runModels(cmd *cobra.Command, args []string) error {
	providerName := args[0]

	credential, _ := cmd.Flags().GetString("api-key")
	if credential == "" {
		credential, _ = configurationService.GetCredential(providerName)
	}

	models, err := registryService.ListModels(context.Background(), providerName, credential)
	if err != nil {
		return err
	}

	for _, model := range models {
		fmt.Println(model)
	}
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	fmt.Printf("config dir: %s\n", userConfigService.ConfigDir())
	fmt.Printf("providers file: %s\n", userConfigService.ProvidersPath())
	fmt.Printf("secrets file: %s\n", userConfigService.SecretsPath())
	fmt.Printf("default provider: %s\n", appConfig.DefaultProvider)
	if appConfig.DefaultModel != "" {
		fmt.Printf("default model: %s\n", appConfig.DefaultModel)
	}
	fmt.Printf("discovery timeout: %s\n", appConfig.DiscoveryTimeout)
	fmt.Println()

	names, err := registryService.ProviderNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		spec, err := registryService.GetProvider(name)
		if err != nil {
			return err
		}

		status := "no credential needed"
		if spec.AuthRequired {
			if _, ok := configurationService.GetCredential(name); ok {
				status = "credential set (redacted)"
			} else {
				status = "credential missing"
			}
		}
		fmt.Printf("%s: %s\n", providerNameStyle.Render(name), status)
	}

	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	providerName, _ := cmd.Flags().GetString("provider")
	if providerName == "" {
		providerName = appConfig.DefaultProvider
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = appConfig.DefaultModel
	}
	if model == "" {
		return fmt.Errorf("no model specified: pass --model or set default_model in the config")
	}

	spec, err := registryService.GetProvider(providerName)
	if err != nil {
		return err
	}

	credential, _ := configurationService.GetCredential(providerName)
	if spec.AuthRequired && credential == "" {
		return types.MissingCredentialError{Provider: providerName}
	}

	client, err := clientFactoryService.GetClientForProvider(spec, credential)
	if err != nil {
		return err
	}

	session := types.NewChatSession(appConfig.SystemPrompt)
	session.AddUserMessage(strings.Join(args, " "))

	logger.Info("Sending completion", "provider", providerName, "model", model)

	response, err := client.SendChatCompletion(session, &types.ModelConfig{
		Provider:  providerName,
		BaseModel: model,
	})
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	if plain {
		fmt.Println(response)
		return nil
	}

	rendered, err := markdownService.Render(response)
	if err != nil {
		logger.Debug("Markdown rendering failed, printing raw response", "error", err)
		fmt.Println(response)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
