package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fopmanager/internal/adapters/export"
	"fopmanager/internal/core"
	"fopmanager/pkg/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "fopmanager",
		Short:        "Manage orientation programme participants, groups and houses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.save(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print operation counters to stderr on exit")
	root.AddCommand(
		newSeedCmd(a),
		newClearCmd(a),
		newPersonsCmd(a),
		newHousesCmd(a),
		newGroupsCmd(a),
		newAddHouseCmd(a),
		newEditHouseCmd(a),
		newDeleteHouseCmd(a),
		newAddGroupCmd(a),
		newDeleteGroupCmd(a),
		newAddPersonCmd(a),
		newEditPersonCmd(a),
		newDeletePersonCmd(a),
		newExportCmd(a),
	)
	return root
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the address book with the sample data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.mutate(func(m *core.Model) error {
				return m.ResetData(cmd.Context(), domain.SampleAddressBook())
			})
			if err != nil {
				return err
			}
			cmd.Printf("Address book seeded with %d persons.\n", len(a.model.FilteredPersons()))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.mutate(func(m *core.Model) error { return m.ResetData(cmd.Context(), nil) }); err != nil {
				return err
			}
			cmd.Println("Address book has been cleared!")
			return nil
		},
	}
}

func newPersonsCmd(a *app) *cobra.Command {
	var (
		where string
		names []string
		tags  []string
	)
	cmd := &cobra.Command{
		Use:   "persons",
		Short: "List participants, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pred, err := personPredicate(where, names, tags)
			if err != nil {
				return err
			}
			a.model.UpdateFilteredPersons(pred)
			printPersons(cmd.OutOrStdout(), a.model.FilteredPersons())
			return nil
		},
	}
	cmd.Flags().StringVar(&where, "where", "", `boolean expression over name, sex, birthday, phone, email, major, group, tags (e.g. 'major == "CS"')`)
	cmd.Flags().StringSliceVar(&names, "name", nil, "keep persons whose name contains any of these words")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "keep persons carrying all of these tags")
	return cmd
}

func newHousesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "houses",
		Short: "List houses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := a.model.HouseNames()
			if len(names) == 0 {
				cmd.Println("No houses.")
				return nil
			}
			cmd.Println("Houses: " + strings.Join(names, " "))
			return nil
		},
	}
}

func newGroupsCmd(a *app) *cobra.Command {
	var house string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List groups per house",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if house == "" {
				for _, line := range a.model.GroupNames() {
					cmd.Println(line)
				}
				return nil
			}
			a.model.UpdateFilteredGroups(core.GroupsInHouse(house))
			groups := a.model.FilteredGroups()
			for _, g := range groups {
				cmd.Println(g.Name)
			}
			cmd.Printf("%d groups listed!\n", len(groups))
			return nil
		},
	}
	cmd.Flags().StringVar(&house, "house", "", "only list groups of this house")
	return cmd
}

func newAddHouseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-house NAME",
		Short: "Add a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := domain.House{Name: args[0]}
			if err := domain.Validate(h); err != nil {
				return err
			}
			if err := a.mutate(func(m *core.Model) error { return m.AddHouse(cmd.Context(), h) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("New house added: %s\n", h.Name)
			return nil
		},
	}
}

func newEditHouseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit-house OLD NEW",
		Short: "Rename a house and re-point its groups",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, edited := domain.House{Name: args[0]}, domain.House{Name: args[1]}
			if err := domain.Validate(edited); err != nil {
				return err
			}
			if err := a.mutate(func(m *core.Model) error { return m.SetHouse(cmd.Context(), target, edited) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("Edited house: %s\n", edited.Name)
			return nil
		},
	}
}

func newDeleteHouseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-house NAME",
		Short: "Delete a house and every group it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := domain.House{Name: args[0]}
			if err := a.mutate(func(m *core.Model) error { return m.DeleteHouse(cmd.Context(), h) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("Deleted house: %s\n", h.Name)
			return nil
		},
	}
}

func newAddGroupCmd(a *app) *cobra.Command {
	var house string
	cmd := &cobra.Command{
		Use:   "add-group NAME",
		Short: "Add a group to a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := domain.Group{Name: args[0], House: house}
			if err := domain.Validate(g); err != nil {
				return err
			}
			if err := a.mutate(func(m *core.Model) error { return m.AddGroup(cmd.Context(), g) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("New group added: %s (%s)\n", g.Name, g.House)
			return nil
		},
	}
	cmd.Flags().StringVar(&house, "house", "", "owning house (required)")
	_ = cmd.MarkFlagRequired("house")
	return cmd
}

func newDeleteGroupCmd(a *app) *cobra.Command {
	var house string
	cmd := &cobra.Command{
		Use:   "delete-group NAME",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := domain.Group{Name: args[0], House: house}
			if err := a.mutate(func(m *core.Model) error { return m.DeleteGroup(cmd.Context(), g) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("Deleted group: %s\n", g.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&house, "house", "", "owning house (required)")
	_ = cmd.MarkFlagRequired("house")
	return cmd
}

// personFlags binds the participant fields shared by add-person and
// edit-person.
type personFlags struct {
	name, sex, birthday, phone, email, major, group string
	tags                                            []string
}

func (f *personFlags) bind(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&f.name, prefix+"name", "", "full name")
	cmd.Flags().StringVar(&f.sex, prefix+"sex", "", "M or F")
	cmd.Flags().StringVar(&f.birthday, prefix+"birthday", "", "birthday as DDMMYYYY")
	cmd.Flags().StringVar(&f.phone, prefix+"phone", "", "phone number")
	cmd.Flags().StringVar(&f.email, prefix+"email", "", "email address")
	cmd.Flags().StringVar(&f.major, prefix+"major", "", "course of study")
	cmd.Flags().StringVar(&f.group, prefix+"group", "", "camp group")
	cmd.Flags().StringSliceVar(&f.tags, prefix+"tag", nil, "tag (repeatable)")
}

func (f *personFlags) person() domain.Person {
	return domain.Person{
		Name: f.name, Sex: f.sex, Birthday: f.birthday, Phone: f.phone,
		Email: f.email, Major: f.major, Group: f.group, Tags: f.tags,
	}
}

// overlay copies every flag the user set onto base.
func (f *personFlags) overlay(cmd *cobra.Command, prefix string, base domain.Person) domain.Person {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(prefix + name) {
			*dst = v
		}
	}
	set("name", &base.Name, f.name)
	set("sex", &base.Sex, f.sex)
	set("birthday", &base.Birthday, f.birthday)
	set("phone", &base.Phone, f.phone)
	set("email", &base.Email, f.email)
	set("major", &base.Major, f.major)
	set("group", &base.Group, f.group)
	if cmd.Flags().Changed(prefix + "tag") {
		base.Tags = f.tags
	}
	return base
}

func newAddPersonCmd(a *app) *cobra.Command {
	var f personFlags
	cmd := &cobra.Command{
		Use:   "add-person",
		Short: "Add a participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := f.person()
			if err := domain.Validate(p); err != nil {
				return err
			}
			if err := a.mutate(func(m *core.Model) error { return m.AddPerson(cmd.Context(), p) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("New person added: %s\n", p.Name)
			return nil
		},
	}
	f.bind(cmd, "")
	return cmd
}

func newEditPersonCmd(a *app) *cobra.Command {
	var target, edit personFlags
	cmd := &cobra.Command{
		Use:   "edit-person",
		Short: "Edit the participant matching --name plus --phone or --email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, ok := a.model.AddressBook().FindPerson(target.person())
			if !ok {
				return fmt.Errorf("no person named %s in the address book", target.name)
			}
			edited := edit.overlay(cmd, "new-", current)
			if err := domain.Validate(edited); err != nil {
				return err
			}
			if err := a.mutate(func(m *core.Model) error { return m.SetPerson(cmd.Context(), current, edited) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("Edited person: %s\n", edited.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&target.name, "name", "", "name of the person to edit")
	cmd.Flags().StringVar(&target.phone, "phone", "", "phone of the person to edit")
	cmd.Flags().StringVar(&target.email, "email", "", "email of the person to edit")
	edit.bind(cmd, "new-")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDeletePersonCmd(a *app) *cobra.Command {
	var name, phone, email string
	cmd := &cobra.Command{
		Use:   "delete-person",
		Short: "Delete the participant matching --name plus --phone or --email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := domain.Person{Name: name, Phone: phone, Email: email}
			if err := a.mutate(func(m *core.Model) error { return m.DeletePerson(cmd.Context(), p) }); err != nil {
				return describeError(err)
			}
			cmd.Printf("Deleted person: %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsOneRequired("phone", "email")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		where  string
		tags   []string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the (filtered) participant list as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			pred, err := personPredicate(where, nil, tags)
			if err != nil {
				return err
			}
			a.model.UpdateFilteredPersons(pred)
			exp, err := a.exporter(cmd.Context())
			if err != nil {
				return err
			}
			info, err := exp.Export(cmd.Context(), a.model.FilteredPersons(), f)
			if err != nil {
				return describeError(err)
			}
			cmd.Printf("Exported %s rows to %s\n", info.Metadata["rows"], info.Key)
			if info.URL != "" {
				cmd.Println(info.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVar(&where, "where", "", "boolean expression selecting the exported persons")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "export persons carrying all of these tags")
	return cmd
}
