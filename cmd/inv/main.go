package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AnneKitsune/inventory-managoat/internal/app"
	"github.com/AnneKitsune/inventory-managoat/internal/config"
	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
	"github.com/AnneKitsune/inventory-managoat/internal/timeparse"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// inventoryName is set by the persistent --inventory flag. Empty means
// the configured default.
var inventoryName string

// newApp creates a fully wired App. The caller must close the App and
// return its error: Close performs the save when the command mutated
// the inventory, so dropping it would hide a failed persist.
// operation identifies the CLI command being run (e.g. "CreateType").
func newApp(operation string) (*app.App, error) {
	a, err := app.NewApp(operation, inventoryName, promptPassphrase)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// promptPassphrase supplies the passphrase for an encrypted store.
// INV_PASSPHRASE takes priority so scripts can avoid the prompt.
func promptPassphrase() (string, error) {
	if p := os.Getenv("INV_PASSPHRASE"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// resolveType turns a type argument into an id. Numeric arguments are
// ids; anything else is matched against type names and must be
// unambiguous.
func resolveType(a *app.App, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}
	matches := a.Inventory.FindTypesByName(arg)
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no type matches %q", arg)
	case 1:
		return matches[0].ID, nil
	default:
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = fmt.Sprintf("%s (#%d)", t.Name, t.ID)
		}
		return 0, fmt.Errorf("type %q is ambiguous: %s", arg, strings.Join(names, ", "))
	}
}

func formatOptString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTTL(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	return timeparse.FormatDuration(*d)
}

func printTypes(types []inventory.ItemType) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMINIMUM\tTTL\tOPENS")
	for _, t := range types {
		opens := ""
		if t.OpenByDefault {
			opens = "open"
		}
		fmt.Fprintf(w, "%d\t%s\t%g\t%s\t%s\n", t.ID, t.Name, t.MinimumQuantity, formatTTL(t.TTL), opens)
	}
	w.Flush()
}

func printInstances(instances []inventory.ItemInstance) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tQTY\tOPENED\tEXPIRES\tLOCATION\tSTATE")
	for _, inst := range instances {
		state := ""
		if inst.Trashed {
			state = "trashed"
		}
		fmt.Fprintf(w, "%d\t%d\t%g\t%s\t%s\t%s\t%s\n",
			inst.ID,
			inst.TypeID,
			inst.Quantity,
			formatOptTime(inst.OpenedAt),
			formatOptTime(inst.ExpiresAt),
			formatOptString(inst.Location),
			state,
		)
	}
	w.Flush()
}

var rootCmd = &cobra.Command{
	Use:   "inv",
	Short: "Personal inventory tracker",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["data_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Data Dir: %s\n", cfg.DataDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Default Inventory: %s\n", cfg.DefaultInventory)
		fmt.Printf("Data Dir:          %s\n", cfg.DataDir)
		fmt.Printf("Log Dir:           %s\n", cfg.LogDir)
		fmt.Printf("Store:             %s\n", cfg.Store.Type)
		return nil
	},
}

// type commands
var createTypeCmd = &cobra.Command{
	Use:   "ct NAME",
	Short: "Create an item type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		minimum, _ := cmd.Flags().GetFloat64("minimum")
		openByDefault, _ := cmd.Flags().GetBool("open-by-default")

		var ttl *time.Duration
		if s, _ := cmd.Flags().GetString("ttl"); s != "" {
			d, err := timeparse.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("invalid --ttl: %w", err)
			}
			ttl = &d
		}

		a, err := newApp("CreateType")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		t, err := a.Inventory.CreateType(args[0], minimum, ttl, openByDefault)
		if err != nil {
			return fmt.Errorf("creating type: %w", err)
		}

		fmt.Printf("Created type #%d: %s\n", t.ID, t.Name)
		return nil
	},
}

var readTypesCmd = &cobra.Command{
	Use:   "rt [QUERY]",
	Short: "List item types",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListTypes")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		var types []inventory.ItemType
		if len(args) > 0 {
			types = a.Inventory.FindTypesByName(args[0])
		} else {
			types = a.Inventory.ListTypes()
		}

		if len(types) == 0 {
			fmt.Println("No types found.")
			return nil
		}

		printTypes(types)
		return nil
	},
}

var updateTypeCmd = &cobra.Command{
	Use:   "ut ID",
	Short: "Update an item type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var u inventory.TypeUpdate
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			u.Name = &name
		}
		if cmd.Flags().Changed("minimum") {
			minimum, _ := cmd.Flags().GetFloat64("minimum")
			u.MinimumQuantity = &minimum
		}
		if cmd.Flags().Changed("ttl") {
			s, _ := cmd.Flags().GetString("ttl")
			d, err := timeparse.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("invalid --ttl: %w", err)
			}
			u.TTL = &d
		}
		u.ClearTTL, _ = cmd.Flags().GetBool("clear-ttl")
		if cmd.Flags().Changed("open-by-default") {
			open, _ := cmd.Flags().GetBool("open-by-default")
			u.OpenByDefault = &open
		}

		a, err := newApp("UpdateType")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.UpdateType(id, u); err != nil {
			return fmt.Errorf("updating type: %w", err)
		}

		fmt.Printf("Updated type #%d\n", id)
		return nil
	},
}

var deleteTypeCmd = &cobra.Command{
	Use:   "dt ID",
	Short: "Delete an item type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeleteType")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.DeleteType(id); err != nil {
			return fmt.Errorf("deleting type: %w", err)
		}

		fmt.Printf("Deleted type #%d\n", id)
		return nil
	},
}

// instance commands
var createInstanceCmd = &cobra.Command{
	Use:   "ci TYPE",
	Short: "Create an item instance (TYPE is an id or a name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("CreateInstance")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		typeID, err := resolveType(a, args[0])
		if err != nil {
			return err
		}

		n := inventory.NewInstance{TypeID: typeID}
		if cmd.Flags().Changed("quantity") {
			q, _ := cmd.Flags().GetFloat64("quantity")
			n.Quantity = &q
		}
		if cmd.Flags().Changed("model") {
			s, _ := cmd.Flags().GetString("model")
			n.Model = &s
		}
		if cmd.Flags().Changed("serial") {
			s, _ := cmd.Flags().GetString("serial")
			n.Serial = &s
		}
		if cmd.Flags().Changed("extra") {
			s, _ := cmd.Flags().GetString("extra")
			n.Extra = &s
		}
		if cmd.Flags().Changed("location") {
			s, _ := cmd.Flags().GetString("location")
			n.Location = &s
		}
		if cmd.Flags().Changed("value") {
			v, _ := cmd.Flags().GetFloat64("value")
			n.Value = &v
		}
		if cmd.Flags().Changed("expires") {
			s, _ := cmd.Flags().GetString("expires")
			ts, err := timeparse.ParseTimestamp(s)
			if err != nil {
				return fmt.Errorf("invalid --expires: %w", err)
			}
			n.ExpiresAt = &ts
		}

		inst, err := a.Inventory.CreateInstance(n)
		if err != nil {
			return fmt.Errorf("creating instance: %w", err)
		}

		fmt.Printf("Created instance #%d (type #%d, quantity %g)\n", inst.ID, inst.TypeID, inst.Quantity)
		return nil
	},
}

var readInstancesCmd = &cobra.Command{
	Use:   "ri [ID]",
	Short: "List item instances, or show one in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListInstances")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if len(args) == 0 {
			instances := a.Inventory.ListInstances()
			if len(instances) == 0 {
				fmt.Println("No instances found.")
				return nil
			}
			printInstances(instances)
			return nil
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		inst, err := a.Inventory.GetInstance(id)
		if err != nil {
			return err
		}

		typeName := fmt.Sprintf("#%d", inst.TypeID)
		if t, err := a.Inventory.GetType(inst.TypeID); err == nil {
			typeName = fmt.Sprintf("%s (#%d)", t.Name, t.ID)
		}

		valueStr := "-"
		if inst.Value != nil {
			valueStr = fmt.Sprintf("%g", *inst.Value)
		}
		trashed := "no"
		if inst.Trashed {
			trashed = "yes"
		}

		fmt.Printf("Instance #%d\n", inst.ID)
		fmt.Printf("Type:     %s\n", typeName)
		fmt.Printf("Quantity: %g\n", inst.Quantity)
		fmt.Printf("Model:    %s\n", formatOptString(inst.Model))
		fmt.Printf("Serial:   %s\n", formatOptString(inst.Serial))
		fmt.Printf("Extra:    %s\n", formatOptString(inst.Extra))
		fmt.Printf("Location: %s\n", formatOptString(inst.Location))
		fmt.Printf("Value:    %s\n", valueStr)
		fmt.Printf("Opened:   %s\n", formatOptTime(inst.OpenedAt))
		fmt.Printf("Expires:  %s\n", formatOptTime(inst.ExpiresAt))
		fmt.Printf("Created:  %s\n", inst.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Trashed:  %s\n", trashed)
		return nil
	},
}

var updateInstanceCmd = &cobra.Command{
	Use:   "ui ID",
	Short: "Update an item instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var u inventory.InstanceUpdate
		if cmd.Flags().Changed("quantity") {
			q, _ := cmd.Flags().GetFloat64("quantity")
			u.Quantity = &q
		}
		if cmd.Flags().Changed("model") {
			s, _ := cmd.Flags().GetString("model")
			u.Model = &s
		}
		if cmd.Flags().Changed("serial") {
			s, _ := cmd.Flags().GetString("serial")
			u.Serial = &s
		}
		if cmd.Flags().Changed("extra") {
			s, _ := cmd.Flags().GetString("extra")
			u.Extra = &s
		}
		if cmd.Flags().Changed("location") {
			s, _ := cmd.Flags().GetString("location")
			u.Location = &s
		}
		if cmd.Flags().Changed("value") {
			v, _ := cmd.Flags().GetFloat64("value")
			u.Value = &v
		}
		if cmd.Flags().Changed("opened") {
			s, _ := cmd.Flags().GetString("opened")
			ts, err := timeparse.ParseTimestamp(s)
			if err != nil {
				return fmt.Errorf("invalid --opened: %w", err)
			}
			u.OpenedAt = &ts
		}
		u.ClearOpened, _ = cmd.Flags().GetBool("clear-opened")
		if cmd.Flags().Changed("expires") {
			s, _ := cmd.Flags().GetString("expires")
			ts, err := timeparse.ParseTimestamp(s)
			if err != nil {
				return fmt.Errorf("invalid --expires: %w", err)
			}
			u.ExpiresAt = &ts
		}
		u.ClearExpires, _ = cmd.Flags().GetBool("clear-expires")

		a, err := newApp("UpdateInstance")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.UpdateInstance(id, u); err != nil {
			return fmt.Errorf("updating instance: %w", err)
		}

		fmt.Printf("Updated instance #%d\n", id)
		return nil
	},
}

var deleteInstanceCmd = &cobra.Command{
	Use:   "di ID",
	Short: "Delete an item instance permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeleteInstance")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.DeleteInstance(id); err != nil {
			return fmt.Errorf("deleting instance: %w", err)
		}

		fmt.Printf("Deleted instance #%d\n", id)
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use ID [AMOUNT]",
	Short: "Consume some quantity of an instance",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		amount := 1.0
		if len(args) > 1 {
			amount, err = strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
		}

		a, err := newApp("Use")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.Use(id, amount); err != nil {
			return fmt.Errorf("using instance: %w", err)
		}

		inst, err := a.Inventory.GetInstance(id)
		if err != nil {
			return err
		}
		fmt.Printf("Used %g of instance #%d (%g remaining)\n", amount, id, inst.Quantity)
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open ID",
	Short: "Mark an instance as opened now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Open")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.Open(id); err != nil {
			return fmt.Errorf("opening instance: %w", err)
		}

		fmt.Printf("Opened instance #%d\n", id)
		return nil
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash ID",
	Short: "Mark an instance as disposed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Trash")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.Inventory.Trash(id); err != nil {
			return fmt.Errorf("trashing instance: %w", err)
		}

		fmt.Printf("Trashed instance #%d\n", id)
		return nil
	},
}

var listMissingCmd = &cobra.Command{
	Use:   "list-missing",
	Short: "List types below their minimum quantity",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListMissing")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		missing := a.Inventory.ListMissing()
		if len(missing) == 0 {
			fmt.Println("Nothing is missing.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tHAVE\tMINIMUM")
		for _, m := range missing {
			fmt.Fprintf(w, "%d\t%s\t%g\t%g\n", m.Type.ID, m.Type.Name, m.TotalQuantity, m.Type.MinimumQuantity)
		}
		w.Flush()
		return nil
	},
}

var listExpiredCmd = &cobra.Command{
	Use:   "list-expired",
	Short: "List instances past their expiry",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListExpired")
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		expired := a.Inventory.ListExpired()
		if len(expired) == 0 {
			fmt.Println("Nothing has expired.")
			return nil
		}

		printInstances(expired)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inventoryName, "inventory", "i", "", "Inventory to operate on (default from config)")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	// type commands
	createTypeCmd.Flags().Float64P("minimum", "m", 0, "Minimum quantity before the type shows up as missing")
	createTypeCmd.Flags().String("ttl", "", "Shelf life of new instances (e.g. 3day, 2week)")
	createTypeCmd.Flags().BoolP("open-by-default", "o", false, "Mark new instances as opened at creation")
	rootCmd.AddCommand(createTypeCmd)
	rootCmd.AddCommand(readTypesCmd)

	updateTypeCmd.Flags().String("name", "", "New name")
	updateTypeCmd.Flags().Float64P("minimum", "m", 0, "New minimum quantity")
	updateTypeCmd.Flags().String("ttl", "", "New shelf life for future instances")
	updateTypeCmd.Flags().Bool("clear-ttl", false, "Remove the shelf life")
	updateTypeCmd.Flags().BoolP("open-by-default", "o", false, "Whether new instances start opened")
	rootCmd.AddCommand(updateTypeCmd)
	rootCmd.AddCommand(deleteTypeCmd)

	// instance commands
	createInstanceCmd.Flags().Float64P("quantity", "q", 1, "Initial quantity")
	createInstanceCmd.Flags().String("model", "", "Model")
	createInstanceCmd.Flags().String("serial", "", "Serial number")
	createInstanceCmd.Flags().String("extra", "", "Free-form note")
	createInstanceCmd.Flags().String("location", "", "Where the item is stored")
	createInstanceCmd.Flags().Float64("value", 0, "Monetary value")
	createInstanceCmd.Flags().String("expires", "", "Expiry timestamp (overrides the type TTL)")
	rootCmd.AddCommand(createInstanceCmd)
	rootCmd.AddCommand(readInstancesCmd)

	updateInstanceCmd.Flags().Float64P("quantity", "q", 0, "New quantity")
	updateInstanceCmd.Flags().String("model", "", "New model")
	updateInstanceCmd.Flags().String("serial", "", "New serial number")
	updateInstanceCmd.Flags().String("extra", "", "New free-form note")
	updateInstanceCmd.Flags().String("location", "", "New location")
	updateInstanceCmd.Flags().Float64("value", 0, "New monetary value")
	updateInstanceCmd.Flags().String("opened", "", "Opened timestamp")
	updateInstanceCmd.Flags().Bool("clear-opened", false, "Remove the opened timestamp")
	updateInstanceCmd.Flags().String("expires", "", "Expiry timestamp")
	updateInstanceCmd.Flags().Bool("clear-expires", false, "Remove the expiry")
	rootCmd.AddCommand(updateInstanceCmd)
	rootCmd.AddCommand(deleteInstanceCmd)

	// quantity commands
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(trashCmd)

	// reports
	rootCmd.AddCommand(listMissingCmd)
	rootCmd.AddCommand(listExpiredCmd)
}
