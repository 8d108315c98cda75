package validation

import (
	"fmt"

	"github.com/alexisbeaulieu97/sectionforge/internal/section"
)

// validateBlocks keeps block instances in source order. Instances of unknown
// types, instances that are not objects and instances beyond a type's limit
// are dropped with a warning; the first limit instances are kept.
func validateBlocks(c *collector, def *section.Definition, input map[string]any) []section.Block {
	raw, present := input[section.KeyBlocks]
	if !present {
		return def.SeedBlocks()
	}

	items, ok := raw.([]any)
	if !ok {
		c.add(section.KeyBlocks, WarningInvalid, "expected array, got %s, default blocks used", typeName(raw))
		return def.SeedBlocks()
	}

	counts := make(map[string]int)
	blocks := make([]section.Block, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", section.KeyBlocks, i)

		obj, isObj := item.(map[string]any)
		if !isObj {
			c.add(path, WarningDropped, "expected object, got %s", typeName(item))
			continue
		}

		blockType, _ := obj[section.KeyBlockType].(string)
		schemaBlock, found := def.Block(blockType)
		if !found {
			c.add(path, WarningDropped, "unknown block type %q", blockType)
			continue
		}

		counts[blockType]++
		if schemaBlock.Limit > 0 && counts[blockType] > schemaBlock.Limit {
			c.add(path, WarningDropped, "more than %d %q blocks", schemaBlock.Limit, blockType)
			continue
		}

		settings := map[string]any{}
		if rawSettings, has := obj[section.KeyBlockSettings]; has {
			if m, isMap := rawSettings.(map[string]any); isMap {
				settings = m
			} else {
				c.add(path+"."+section.KeyBlockSettings, WarningInvalid, "expected object, got %s", typeName(rawSettings))
			}
		}

		fields := schemaBlock.Fields()
		block := section.Block{
			Type:          blockType,
			Values:        validateFields(c, path+"."+section.KeyBlockSettings+".", fields, settings),
			Extra:         map[string]any{},
			SettingsExtra: map[string]any{},
		}

		known := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			known[f.Meta().ID] = struct{}{}
		}
		for key, value := range settings {
			if _, isField := known[key]; !isField {
				block.SettingsExtra[key] = section.CloneValue(value)
			}
		}
		for key, value := range obj {
			if key == section.KeyBlockType || key == section.KeyBlockSettings {
				continue
			}
			block.Extra[key] = section.CloneValue(value)
		}

		blocks = append(blocks, block)
	}
	return blocks
}
