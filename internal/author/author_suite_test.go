package author

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Author Suite")
}
