package lacerr_test

import (
	"testing"

	"github.com/lacuna-lang/lacuna/lacerr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOfUnwraps(t *testing.T) {
	err := lacerr.New(lacerr.NewAtTop{})
	assert.Equal(t, lacerr.AtTop, lacerr.CodeOf(err))

	wrapped := errors.Wrap(err, "while applying a move")
	assert.Equal(t, lacerr.AtTop, lacerr.CodeOf(wrapped))

	assert.Equal(t, lacerr.None, lacerr.CodeOf(errors.New("unrelated")))
	assert.Equal(t, lacerr.None, lacerr.CodeOf(nil))
}

func TestFormatWithCode(t *testing.T) {
	err := lacerr.New(lacerr.NewNoSuchChild{Child: 2, ChildCount: 1})
	assert.Equal(t, "(E001) no child 2 here: the focused expression has 1 children", lacerr.FormatWithCode(err))
}

func TestErrorsCollection(t *testing.T) {
	var errs *lacerr.Errors
	assert.False(t, errs.HasError())

	errs = errs.With(lacerr.New(lacerr.NewAtTop{}))
	require.True(t, errs.HasError())

	more := (&lacerr.Errors{}).With(
		lacerr.New(lacerr.NewNoSuchChild{Child: 1, ChildCount: 0}),
		lacerr.New(lacerr.NewBadReplay{Seq: 3, Reason: "no such path"}),
	)
	merged := errs.Merge(more)
	require.Len(t, merged.Errors(), 3)
	assert.Equal(t, lacerr.AtTop, merged.Errors()[0].Code())
	assert.Equal(t, lacerr.BadReplay, merged.Errors()[2].Code())

	assert.Same(t, merged, merged.Merge(nil))
}
