package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-scorer/internal/scoring"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify NAME",
		Short: "Ask the model which category a parameter name belongs to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			category, err := a.classifier.Classify(cmd.Context(), name)
			if err != nil {
				return explainClassifyError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, categoryColor(category).Sprint(category.Label()))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		typeName string
		weight   float64
		maxValue float64
		benefit  string
		desc     string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a parameter, classifying it when --type is omitted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			var category scoring.Category
			if typeName != "" {
				parsed, err := scoring.ParseCategory(typeName)
				if err != nil {
					return err
				}
				category = parsed
			} else {
				classified, err := a.classifier.Classify(cmd.Context(), name)
				if err != nil {
					return explainClassifyError(err)
				}
				category = classified
			}

			var maxPtr *float64
			var benefitType scoring.BenefitType
			if category == scoring.Quantitative {
				if cmd.Flags().Changed("max") {
					maxPtr = &maxValue
				}
				parsed, err := scoring.ParseBenefitType(benefit)
				if err != nil {
					return err
				}
				benefitType = parsed
			}

			p, err := scoring.NewParameter(name, category, weight, maxPtr, benefitType)
			if err != nil {
				return err
			}
			p = p.WithDescription(desc)
			if err := a.store.Upsert(p); err != nil {
				return fmt.Errorf("saving parameter: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s, weight %g) to %s\n",
				p.Key, categoryColor(p.Category).Sprint(p.Category.Label()), p.Weight, a.paramsFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Category: "+categoryList()+" (classified when omitted)")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 1, "Relative weight, greater than zero")
	cmd.Flags().Float64Var(&maxValue, "max", 0, "Max value for quantitative parameters")
	cmd.Flags().StringVarP(&benefit, "benefit", "b", "higher", "Benefit type for quantitative parameters: higher or lower")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "Phrase used in scoring prompts (default: the name)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(params) == 0 {
				fmt.Fprintln(out, "No parameters configured.")
				return nil
			}

			fmt.Fprintf(out, "%-30s %-14s %-8s %-8s %-7s\n", "Key", "Type", "Weight", "Max", "Benefit")
			fmt.Fprintln(out, strings.Repeat("-", 71))
			for _, p := range params {
				maxStr := "-"
				if p.MaxValue != nil {
					maxStr = fmt.Sprintf("%g", *p.MaxValue)
				}
				benefitStr := "-"
				if p.Benefit != "" {
					benefitStr = string(p.Benefit)
				}
				label := fmt.Sprintf("%-14s", p.Category.Label())
				fmt.Fprintf(out, "%-30s %s %-8g %-8s %-7s\n",
					p.Key, categoryColor(p.Category).Sprint(label), p.Weight, maxStr, benefitStr)
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove KEY",
		Short: "Remove a parameter by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", scoring.NormalizeKey(args[0]))
			return nil
		},
	}
}

func explainClassifyError(err error) error {
	switch {
	case errors.Is(err, scoring.ErrAmbiguousClassification):
		return fmt.Errorf("%w; pass --type to set it explicitly", err)
	case errors.Is(err, scoring.ErrMissingCredential):
		return fmt.Errorf("%w; set the API key for LLM_PROVIDER or pass --type", err)
	}
	return err
}

func categoryColor(c scoring.Category) *color.Color {
	switch c {
	case scoring.Quantitative:
		return color.New(color.FgCyan)
	case scoring.Boolean:
		return color.New(color.FgYellow)
	case scoring.Portfolio:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgMagenta)
	}
}

func categoryList() string {
	labels := make([]string, len(scoring.Categories))
	for i, c := range scoring.Categories {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}
