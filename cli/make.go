package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMakeCommand creates the make command scaffolding models and their migrations.
func NewMakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Scaffold application code",
	}

	var attributes, relations, folder string
	model := &cobra.Command{
		Use:     "model <name>",
		Short:   "Generate a model declaration and its create table migration",
		Example: "haku make model Article --attributes title:string,body:text --relations :User:belongsTo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := ParseFields(attributes)
			if err != nil {
				return err
			}
			var rels []RelationInfo
			if relations != "" {
				if rels, err = ParseRelations(relations); err != nil {
					return err
				}
			}

			generated, err := GenerateModel(ModelOptions{Name: args[0], Fields: fields, Relations: rels, BaseFolder: folder})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created", generated.Model)
			fmt.Fprintln(cmd.OutOrStdout(), "created", generated.Migration)
			return nil
		},
	}
	model.Flags().StringVar(&attributes, "attributes", "", "model attributes, e.g.: name:string,email:email")
	model.Flags().StringVar(&relations, "relations", "", "relations, e.g.: :Company:belongsTo,pets:Pet:hasMany")
	model.Flags().StringVar(&folder, "folder", ".", "base folder of the project")
	_ = model.MarkFlagRequired("attributes")

	cmd.AddCommand(model)
	return cmd
}
