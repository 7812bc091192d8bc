package compiler_test

import (
	"testing"

	"github.com/brimdata/zscript/ztest"
)

func TestZTest(t *testing.T) {
	ztest.Run(t, "ztests")
}
