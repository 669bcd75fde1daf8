package obsws

import (
	"context"
	"fmt"
)

// StartStreaming tells OBS to start the streaming output.
func (c *Client) StartStreaming(ctx context.Context) error {
	return c.Call(ctx, "StartStreaming", nil, nil)
}

// StopStreaming tells OBS to stop the streaming output.
func (c *Client) StopStreaming(ctx context.Context) error {
	return c.Call(ctx, "StopStreaming", nil, nil)
}

// GetStreamingStatus returns the current output state.
func (c *Client) GetStreamingStatus(ctx context.Context) (*StreamingStatus, error) {
	var status StreamingStatus
	if err := c.Call(ctx, "GetStreamingStatus", nil, &status); err != nil {
		return nil, fmt.Errorf("could not retrieve the streaming status: %w", err)
	}
	return &status, nil
}

// GetStreamSettings returns the configured streaming output settings.
func (c *Client) GetStreamSettings(ctx context.Context) (*StreamSettings, error) {
	var settings StreamSettings
	if err := c.Call(ctx, "GetStreamSettings", nil, &settings); err != nil {
		return nil, fmt.Errorf("could not retrieve the stream settings: %w", err)
	}
	return &settings, nil
}

// SetStreamSettings updates the streaming output settings. When save is
// true, OBS persists them to disk.
func (c *Client) SetStreamSettings(ctx context.Context, settings StreamSettings, save bool) error {
	args := map[string]any{
		"type":     settings.Type,
		"settings": settings.Settings,
		"save":     save,
	}
	return c.Call(ctx, "SetStreamSettings", args, nil)
}

// GetCurrentScene returns the active program scene with its sources.
func (c *Client) GetCurrentScene(ctx context.Context) (*Scene, error) {
	var scene Scene
	if err := c.Call(ctx, "GetCurrentScene", nil, &scene); err != nil {
		return nil, fmt.Errorf("could not retrieve the current scene: %w", err)
	}
	return &scene, nil
}

// SetCurrentScene switches the program output to the named scene.
func (c *Client) SetCurrentScene(ctx context.Context, name string) error {
	return c.Call(ctx, "SetCurrentScene", map[string]any{"scene-name": name}, nil)
}

// SetSceneItemRender shows or hides a source. An empty sceneName targets the
// current scene.
func (c *Client) SetSceneItemRender(ctx context.Context, sceneName, source string, visible bool) error {
	args := map[string]any{
		"source": source,
		"render": visible,
	}
	if sceneName != "" {
		args["scene-name"] = sceneName
	}
	return c.Call(ctx, "SetSceneItemRender", args, nil)
}

// EnableStudioMode switches OBS into studio mode.
func (c *Client) EnableStudioMode(ctx context.Context) error {
	return c.Call(ctx, "EnableStudioMode", nil, nil)
}

// GetStudioModeStatus reports whether studio mode is active.
func (c *Client) GetStudioModeStatus(ctx context.Context) (*StudioModeStatus, error) {
	var status StudioModeStatus
	if err := c.Call(ctx, "GetStudioModeStatus", nil, &status); err != nil {
		return nil, fmt.Errorf("could not retrieve the studio mode status: %w", err)
	}
	return &status, nil
}

// PlayPauseMedia pauses (pause=true) or resumes playback of a media source.
func (c *Client) PlayPauseMedia(ctx context.Context, sourceName string, pause bool) error {
	args := map[string]any{
		"sourceName": sourceName,
		"playPause":  pause,
	}
	return c.Call(ctx, "PlayPauseMedia", args, nil)
}

// RestartMedia restarts playback of a media source from the beginning.
func (c *Client) RestartMedia(ctx context.Context, sourceName string) error {
	return c.Call(ctx, "RestartMedia", map[string]any{"sourceName": sourceName}, nil)
}

// StopMedia stops playback of a media source.
func (c *Client) StopMedia(ctx context.Context, sourceName string) error {
	return c.Call(ctx, "StopMedia", map[string]any{"sourceName": sourceName}, nil)
}

// GetMediaState returns the playback state of a media source.
func (c *Client) GetMediaState(ctx context.Context, sourceName string) (*MediaState, error) {
	var state MediaState
	if err := c.Call(ctx, "GetMediaState", map[string]any{"sourceName": sourceName}, &state); err != nil {
		return nil, fmt.Errorf("could not retrieve the media state: %w", err)
	}
	return &state, nil
}
