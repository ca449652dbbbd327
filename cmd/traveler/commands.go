package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/internal/survey"
)

type classifyOptions struct {
	ratings       []string
	file          string
	defaultRating int
	compare       bool
	configPath    string
}

type classifyOutput struct {
	Scores             classifier.Scores       `json:"scores"`
	Persona            classifier.Persona      `json:"persona"`
	RelevantConstructs []classifier.Construct  `json:"relevantConstructs"`
	Routes             []string                `json:"routes"`
	Comparison         *suggestions.Comparison `json:"comparison,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "traveler",
		Short:         "Discover your rail travel persona",
		Long:          "Rate 21 rail travel features from 1 to 5 and get a traveler persona with suggested rail routes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Print machine-readable JSON")

	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newPersonasCmd())
	return root
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the survey questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), survey.Questions())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, survey.RatingScale().Prompt)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, q := range survey.Questions() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", q.Code, q.Label, q.Construct)
			}
			return tw.Flush()
		},
	}
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List every traveler persona",
		RunE: func(cmd *cobra.Command, args []string) error {
			personas := classifier.Personas()
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), personas)
			}
			for _, p := range personas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", p.Icon, p.Name, p.Description)
			}
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a set of survey ratings",
		Example: `  traveler classify --default 3 --rating LX1=5 --rating SU2=5
  traveler classify --file responses.yaml --compare`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.ratings, "rating", "r", nil, "Rating as CODE=VALUE, repeatable")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML or JSON file mapping indicator codes to ratings")
	cmd.Flags().IntVar(&opts.defaultRating, "default", 0, "Rating for indicators not given (0 requires all 21)")
	cmd.Flags().BoolVar(&opts.compare, "compare", false, "Compare scores against the survey baseline")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Service config file providing baseline values")
	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions) error {
	raw, err := collectResponses(opts)
	if err != nil {
		return err
	}

	responses, err := survey.ParseResponses(raw)
	if err != nil {
		return err
	}
	scores, result, err := classifier.Evaluate(responses)
	if err != nil {
		return errors.FromClassifier(err)
	}

	output := classifyOutput{
		Scores:             scores,
		Persona:            result.Persona,
		RelevantConstructs: result.Relevant,
		Routes:             suggestions.RoutesFor(result.Relevant),
	}
	if opts.compare {
		baseline, err := loadBaseline(opts.configPath)
		if err != nil {
			return err
		}
		cmp := suggestions.Compare(scores, responses, baseline)
		output.Comparison = &cmp
	}

	if asJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), output)
	}
	printClassification(cmd.OutOrStdout(), output)
	return nil
}

// collectResponses merges the file, the --rating flags and the default, in
// that order of increasing precedence for explicit values.
func collectResponses(opts *classifyOptions) (map[string]interface{}, error) {
	raw := make(map[string]interface{})

	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.file, err)
		}
		var fromFile map[string]interface{}
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, errors.NewInvalidResponsePayloadError(fmt.Sprintf("%s: %v", opts.file, err))
		}
		for code, v := range fromFile {
			raw[strings.ToUpper(code)] = v
		}
	}

	for _, r := range opts.ratings {
		code, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, errors.NewInvalidResponsePayloadError(fmt.Sprintf("rating %q must look like CODE=VALUE", r))
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.NewInvalidResponsePayloadError(fmt.Sprintf("rating %q: value must be an integer", r))
		}
		raw[strings.ToUpper(strings.TrimSpace(code))] = n
	}

	if opts.defaultRating != 0 {
		if opts.defaultRating < classifier.MinRating || opts.defaultRating > classifier.MaxRating {
			return nil, errors.NewRatingOutOfRangeError(fmt.Sprintf("--default %d (allowed %d-%d)",
				opts.defaultRating, classifier.MinRating, classifier.MaxRating))
		}
		for _, q := range survey.Questions() {
			if _, ok := raw[string(q.Code)]; !ok {
				raw[string(q.Code)] = opts.defaultRating
			}
		}
	}

	return raw, nil
}

func loadBaseline(configPath string) (suggestions.Baseline, error) {
	if configPath == "" {
		return suggestions.DefaultBaseline(), nil
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return suggestions.Baseline{}, err
	}
	if cfg.Baseline.Source != config.BaselineSourceConfig {
		return suggestions.DefaultBaseline(), nil
	}
	b, err := suggestions.BaselineFromValues(config.BaselineSourceConfig, cfg.Baseline.Constructs, cfg.Baseline.Indicators)
	if err != nil {
		return suggestions.Baseline{}, errors.FromSuggestions(err)
	}
	return b, nil
}

func printClassification(w io.Writer, out classifyOutput) {
	fmt.Fprintf(w, "You are: %s %s\n", out.Persona.Name, out.Persona.Icon)
	fmt.Fprintln(w, out.Persona.Description)

	fmt.Fprintln(w, "\nScores:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range sortedByScore(out.Scores) {
		fmt.Fprintf(tw, "  %s\t%.3f\n", c, out.Scores[c])
	}
	tw.Flush()

	fmt.Fprintln(w, "\nSuggested Routes:")
	for _, r := range out.Routes {
		fmt.Fprintf(w, "  - %s\n", r)
	}

	if out.Comparison == nil {
		return
	}
	fmt.Fprintf(w, "\nCompared with %s baseline:\n", out.Comparison.Source)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range out.Comparison.Constructs {
		fmt.Fprintf(tw, "  %s\t%.3f\t%+.3f\n", d.Construct, d.Value, d.Delta)
	}
	tw.Flush()
	if strongest, ok := out.Comparison.Strongest(); ok && strongest.Delta > 0 {
		fmt.Fprintf(w, "You care about %s more than most travelers.\n", strongest.Construct)
	}
}

func sortedByScore(scores classifier.Scores) []classifier.Construct {
	ranked, err := classifier.Rank(scores)
	if err == nil {
		return ranked
	}
	out := make([]classifier.Construct, 0, len(scores))
	for c := range scores {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describeError(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		if stdErr.Details != "" {
			return fmt.Sprintf("%s: %s (%s)", stdErr.Code, stdErr.Message, stdErr.Details)
		}
		return fmt.Sprintf("%s: %s", stdErr.Code, stdErr.Message)
	}
	return err.Error()
}
