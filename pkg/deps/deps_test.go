package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mdscaffold/pkg/markdown"
)

func files(contents ...string) []markdown.File {
	out := make([]markdown.File, len(contents))
	for i, c := range contents {
		out[i] = markdown.File{Path: "f.ts", Content: c}
	}
	return out
}

func TestInfer_Scenario(t *testing.T) {
	doc := "<ReactProject id=\"demo\">\n" +
		"```ts file=\"a.ts\"\nimport z from 'zod'```\n" +
		"```ts file=\"b/c.ts\"\nimport './local'```\n"

	extracted, err := markdown.Extract(doc)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	set := Infer(extracted, DefaultPolicy())
	assert.Equal(t, []string{"zod"}, set.Sorted())
}

func TestInfer_Exclusions(t *testing.T) {
	set := Infer(files(
		`import X from './components/x'`,
		`import { y } from "@/lib/y"`,
		`import Link from "next/link"`,
		`import { Inter } from 'next/font/google'`,
		`import up from '../up'`,
		`import z from 'zod'`,
		`import { Toast } from '@radix-ui/react-toast/sub'`,
	), DefaultPolicy())

	assert.Equal(t, []string{"@radix-ui/react-toast", "zod"}, set.Sorted())
}

func TestInfer_Deduplicates(t *testing.T) {
	set := Infer(files(
		`import { z } from 'zod'`,
		"import { a } from 'zod'\nimport * as b from \"zod\"",
		`import { zodResolver } from '@hookform/resolvers/zod'`,
		`import type { Resolver } from '@hookform/resolvers'`,
	), DefaultPolicy())

	assert.Equal(t, []string{"@hookform/resolvers", "zod"}, set.Sorted())
	assert.True(t, set.Has("zod"))
	assert.False(t, set.Has("react"))
}

func TestInfer_Policy(t *testing.T) {
	policy := Policy{
		Ignore:            []string{"react"},
		BlacklistPrefixes: []string{"next/", "node:"},
	}
	set := Infer(files(
		`import React from 'react'`,
		`import fs from 'node:fs'`,
		`import { clsx } from 'clsx'`,
		`import Image from 'next/image'`,
		`import { createRoot } from 'react-dom/client'`,
	), policy)

	assert.Equal(t, []string{"clsx", "react-dom/client"}, set.Sorted())
}

func TestInfer_EmptyPolicyKeepsNext(t *testing.T) {
	set := Infer(files(`import Link from "next/link"`), Policy{})
	assert.Equal(t, []string{"next/link"}, set.Sorted())
}

func TestInfer_UnscopedSubPath(t *testing.T) {
	set := Infer(files(
		"import debounce from 'lodash/debounce'\nimport { format } from 'date-fns/format'",
		`import map from 'lodash/fp/map'`,
	), DefaultPolicy())

	assert.Equal(t, []string{"date-fns/format", "lodash/debounce", "lodash/fp"}, set.Sorted())
}

func TestInfer_Empty(t *testing.T) {
	assert.Empty(t, Infer(nil, DefaultPolicy()))
	assert.Empty(t, Infer(files("const x = 1", `import "./globals.css"`), DefaultPolicy()))
}

func TestImports(t *testing.T) {
	code := `import React, { useState } from "react"
import {
  Card,
  CardHeader,
} from "@/components/ui/card"
import './side-effect.css'
import type { Metadata } from 'next'
import * as z from 'zod';
const lazy = import('lazy-module')
export { x } from 'reexport'
`
	assert.Equal(t, []string{"react", "@/components/ui/card", "next", "zod"}, Imports(code))
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		spec string
		want bool
	}{
		{"./components/x", true},
		{"../lib/y", true},
		{"@/lib/y", true},
		{"/abs/path", true},
		{".", true},
		{"zod", false},
		{"@scope/pkg", false},
		{"next/link", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocal(tt.spec))
		})
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"zod", "zod"},
		{"@radix-ui/react-toast", "@radix-ui/react-toast"},
		{"@radix-ui/react-toast/sub", "@radix-ui/react-toast"},
		{"@hookform/resolvers/zod", "@hookform/resolvers"},
		{"date-fns/locale", "date-fns/locale"},
		{"lodash/fp/map", "lodash/fp"},
		{"@scope", "@scope"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageName(tt.spec))
		})
	}
}

func TestPolicy_Excludes(t *testing.T) {
	p := Policy{Ignore: []string{"react"}, BlacklistPrefixes: []string{"next/", ""}}

	assert.True(t, p.Excludes("react"))
	assert.True(t, p.Excludes("next/link"))
	assert.False(t, p.Excludes("react-dom"))
	assert.False(t, p.Excludes("next"))
}

func TestUsesToast(t *testing.T) {
	assert.True(t, UsesToast(`import { useToast } from "@/components/ui/toast"`))
	assert.True(t, UsesToast(`import { Toaster } from "@/components/ui/toaster"`))
	assert.False(t, UsesToast(`import { Button } from "@/components/ui/button"`))
}
