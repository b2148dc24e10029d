package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// repeatedFlag accumulates the values of a flag given more than once.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return fmt.Sprintf("%v", *r) }

func (r *repeatedFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// keyValueFlag accumulates key=value pairs in the order given.
type keyValueFlag struct {
	keys   []string
	values map[string]string
}

func (kv *keyValueFlag) String() string {
	pairs := make([]string, 0, len(kv.keys))
	for _, k := range kv.keys {
		pairs = append(pairs, k+"="+kv.values[k])
	}
	return strings.Join(pairs, ",")
}

func (kv *keyValueFlag) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || k == "" {
		return errors.Errorf("expected key=value, got %q", value)
	}

	if kv.values == nil {
		kv.values = make(map[string]string)
	}
	if _, seen := kv.values[k]; !seen {
		kv.keys = append(kv.keys, k)
	}
	kv.values[k] = v
	return nil
}
