package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/vetcare/vetportal/navigation"
	"github.com/vetcare/vetportal/resources"
)

var resourcesParams = struct {
	Kind      resources.Kind
	Operation resources.Operation
	Id        string
	Data      []string
	Query     []string
}{}

var resourcesCmd = &cobra.Command{
	Use:       "resources <kind> list|get|create|patch|delete [id]",
	Short:     "Manage practice resources",
	Long:      "The resources command lists, shows, creates, updates and deletes the records of a collection of the practice api",
	Args:      cobra.RangeArgs(2, 3),
	ValidArgs: kindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := resources.ParseKind(args[0])
		if err != nil {
			return err
		}
		op := resources.Operation(args[1])
		switch op {
		case resources.OperationList, resources.OperationCreate:
			if len(args) != 2 {
				return fmt.Errorf("%s doesn't accept an id", op)
			}
		case resources.OperationGet, resources.OperationUpdate, resources.OperationDelete:
			if len(args) != 3 {
				return fmt.Errorf("%s requires an id", op)
			}
			resourcesParams.Id = args[2]
		default:
			return fmt.Errorf("unknown operation %q", op)
		}

		resourcesParams.Kind = kind
		resourcesParams.Operation = op
		return Run(runResourceOperation)
	},
}

func init() {
	resourcesCmd.Flags().StringArrayVarP(&resourcesParams.Data, "data", "d", nil, "Json object of the record, @file reads it from a file. Repeated objects are deep merged.")
	resourcesCmd.Flags().StringArrayVarP(&resourcesParams.Query, "query", "q", nil, "Query parameter of the list operation as key=value")

	rootCmd.AddCommand(resourcesCmd)
}

func runResourceOperation(controller *navigation.Controller, service resources.Service) error {
	kind, op, id := resourcesParams.Kind, resourcesParams.Operation, resourcesParams.Id
	return controller.Run(context.TODO(), resources.RequiredRoles(kind, op), func(ctx context.Context) error {
		switch op {
		case resources.OperationList:
			query, err := parseQuery(resourcesParams.Query)
			if err != nil {
				return err
			}
			records, err := service.List(ctx, kind, query)
			if err != nil {
				return err
			}
			return printJSON(records)
		case resources.OperationGet:
			record, err := service.Get(ctx, kind, id)
			if err != nil {
				return err
			}
			return printJSON(record)
		case resources.OperationCreate:
			data, err := readData(resourcesParams.Data)
			if err != nil {
				return err
			}
			record, err := service.Create(ctx, kind, data)
			if err != nil {
				return err
			}
			return printJSON(record)
		case resources.OperationUpdate:
			data, err := readData(resourcesParams.Data)
			if err != nil {
				return err
			}
			record, err := service.Update(ctx, kind, id, data)
			if err != nil {
				return err
			}
			return printJSON(record)
		case resources.OperationDelete:
			if err := service.Delete(ctx, kind, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s %s\n", kind, id)
		}
		return nil
	})
}

func readData(values []string) (resources.Record, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("--data is required")
	}

	fragments := make([][]byte, 0, len(values))
	for _, value := range values {
		if path, ok := strings.CutPrefix(value, "@"); ok {
			fragment, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, fragment)
			continue
		}
		fragments = append(fragments, []byte(value))
	}

	return resources.MergeFragments(fragments...)
}

func parseQuery(values []string) (url.Values, error) {
	query := url.Values{}
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected key=value", value)
		}
		query.Add(key, val)
	}
	return query, nil
}

func printJSON(v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func kindNames() []string {
	names := make([]string, 0, len(resources.Kinds))
	for _, kind := range resources.Kinds {
		names = append(names, string(kind))
	}
	return names
}
