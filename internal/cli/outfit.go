package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// selectionFlags holds --code plus one flag per category.
type selectionFlags struct {
	code string
	refs map[catalog.Category]*string
}

// register adds the flags to cmd. complete, if non-nil, supplies the value
// completion for each category flag.
func (f *selectionFlags) register(cmd *cobra.Command, complete func(catalog.Category) flagCompleter) {
	f.refs = make(map[catalog.Category]*string, len(catalog.Categories))
	cmd.Flags().StringVar(&f.code, "code", "", "start from an outfit code")
	for _, k := range catalog.Categories {
		usage := k.String() + " item by url or label"
		if !k.Required() {
			usage += ` ("none" to clear)`
		}
		f.refs[k] = cmd.Flags().String(k.String(), "", usage)
		if complete != nil {
			_ = cmd.RegisterFlagCompletionFunc(k.String(), complete(k))
		}
	}
}

// selection resolves the flags against cat. Flags override categories
// decoded from --code.
func (f *selectionFlags) selection(cat *catalog.Catalog) (outfit.Selection, error) {
	base := make(outfit.Selection)
	if f.code != "" {
		code, err := codec.Parse(f.code)
		if err != nil {
			return nil, err
		}
		base = codec.Decode(code, cat)
	}
	refs := make(map[string]string, len(f.refs))
	for k, v := range f.refs {
		if *v != "" {
			refs[k.String()] = *v
		}
	}
	return base.Apply(cat, refs)
}
