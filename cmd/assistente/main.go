// Command assistente answers support questions grounded in a local
// knowledge-base directory. The default command runs the console loop;
// "assistente chat" opens the terminal chat UI.
package main

import (
	"errors"
	"fmt"
	"os"

	"assistente/cli"
	"assistente/llm"
	"assistente/llm/rag"
	"assistente/pipeline"
	"assistente/tui/chat"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDir          string
	flagPattern      string
	flagChunkSize    int
	flagChunkOverlap int
	flagConcurrency  int
	flagStore        string
	flagTopK         int
	flagTemperature  float32
	flagSources      bool
)

var rootCmd = &cobra.Command{
	Use:           "assistente",
	Short:         "Assistente de suporte baseado em uma base de conhecimento local",
	Long:          "Assistente que responde perguntas usando apenas os documentos da base de conhecimento interna.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Abre a interface de chat no terminal",
	RunE:  runChat,
}

func init() {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDir, "dir", "./base_de_conhecimento", "diretório da base de conhecimento")
	pf.StringVar(&flagPattern, "pattern", "", "padrão glob para filtrar os arquivos carregados")
	pf.IntVar(&flagChunkSize, "chunk-size", 0, "tamanho máximo de cada trecho (padrão 1000)")
	pf.IntVar(&flagChunkOverlap, "chunk-overlap", 0, "sobreposição entre trechos (padrão 200)")
	pf.IntVar(&flagConcurrency, "concurrency", 4, "arquivos carregados em paralelo")
	pf.StringVar(&flagStore, "store", "memory", "backend do índice vetorial (memory ou redis)")
	pf.IntVar(&flagTopK, "top-k", 0, "quantos trechos são recuperados por pergunta (padrão 4)")
	pf.Float32Var(&flagTemperature, "temperature", 0.3, "temperatura do modelo")
	pf.BoolVar(&flagSources, "sources", false, "mostra as fontes consultadas em cada resposta")

	rootCmd.AddCommand(chatCmd)
}

func buildConfig() pipeline.Config {
	return pipeline.Config{
		Dir:           flagDir,
		Pattern:       flagPattern,
		ChunkSize:     flagChunkSize,
		ChunkOverlap:  flagChunkOverlap,
		Concurrency:   flagConcurrency,
		Store:         flagStore,
		TopK:          flagTopK,
		Temperature:   &flagTemperature,
		ReturnSources: flagSources,
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("Analisando e carregando a base de conhecimento...")

	pipe, err := pipeline.NewManager().Setup(ctx, buildConfig())
	if err != nil {
		return err
	}

	fmt.Printf("Base de conhecimento carregada: %d documentos, %d trechos indexados.\n",
		pipe.DocumentCount, pipe.ChunkCount)
	for _, f := range pipe.Failures {
		fmt.Printf("Aviso: %s não pôde ser carregado (%s)\n", f.Path, f.Err)
	}

	session := rag.NewSession(pipe.Engine)
	defer session.Close()
	defer pipe.Store.Close()

	return cli.RunConsole(ctx, session, os.Stdin, os.Stdout, flagSources)
}

func runChat(cmd *cobra.Command, args []string) error {
	model := chat.InitialModel(pipeline.NewManager(), buildConfig())

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(chat.Model); ok && m.Err() != nil {
		return m.Err()
	}

	fmt.Println("Até logo!")
	return nil
}

// describe maps the fatal setup errors to operator-facing messages
// with a remediation hint.
func describe(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		return "Erro: defina a variável de ambiente GOOGLE_API_KEY antes de iniciar o assistente."
	case errors.Is(err, llm.ErrMissingDirectory):
		return fmt.Sprintf("Erro: %v\nCrie o diretório e adicione os documentos de suporte antes de iniciar.", err)
	case errors.Is(err, llm.ErrNoDocuments):
		return fmt.Sprintf("Erro: nenhum documento pôde ser carregado da base de conhecimento (%v).", err)
	default:
		return fmt.Sprintf("Erro: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
