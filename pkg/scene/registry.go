package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned by Lookup for names not in the registry
var ErrUnknownScene = errors.New("scene: unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"display_name"`
	Description string `json:"description" yaml:"description"`
	Lights      int    `json:"lights" yaml:"lights"`
}

type entry struct {
	info  SceneInfo
	build func() *Scene
}

var builtin = map[string]entry{
	"cornell": {
		info:  SceneInfo{ID: "cornell", DisplayName: "Cornell Box", Description: "single ceiling light, boxes and a mirror sphere"},
		build: NewCornellScene,
	},
	"lightgrid": {
		info:  SceneInfo{ID: "lightgrid", DisplayName: "Light Grid", Description: "144 colored quad lights, sun and sky"},
		build: func() *Scene { return NewLightGridScene(DefaultLightGridOptions()) },
	},
	"lightgrid-mixed": {
		info:  SceneInfo{ID: "lightgrid-mixed", DisplayName: "Light Grid (mixed)", Description: "quad, sphere and point lights, no sun or sky"},
		build: func() *Scene {
			opts := DefaultLightGridOptions()
			opts.WithSun, opts.WithSky, opts.WithPoints = false, false, true
			return NewLightGridScene(opts)
		},
	},
	"lightgrid-catcher": {
		info:  SceneInfo{ID: "lightgrid-catcher", DisplayName: "Light Grid (shadow catcher)", Description: "light grid over a shadow catcher ground"},
		build: func() *Scene {
			opts := DefaultLightGridOptions()
			opts.WithSky, opts.Catcher = false, true
			return NewLightGridScene(opts)
		},
	},
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtin))
	for _, e := range builtin {
		info := e.info
		info.Lights = len(e.build().Lights)
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// Lookup creates a fresh, unbuilt instance of the named scene
func Lookup(id string) (*Scene, error) {
	e, ok := builtin[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return e.build(), nil
}
