package style

import "sort"

// Flags for static property metadata.
const (
	propInterpolable uint16 = 1 << iota
	propInherited
	propCompositable // may run on the compositor
	propSnapshot     // compositor needs a keyframe value snapshot
	propAffectsFont
	propAnimationAffecting // may not be animated at all
	propLogical            // direction-aware, resolves to a physical property
)

type propertyInfo struct {
	flags   uint16
	initial Property
}

// propertyTable lists the properties this engine knows about.
// Unknown properties are treated as non-interpolable, non-inherited.
var propertyTable = map[string]propertyInfo{
	// box model
	"width":         {propInterpolable, "auto"},
	"height":        {propInterpolable, "auto"},
	"min-width":     {propInterpolable, "0px"},
	"min-height":    {propInterpolable, "0px"},
	"max-width":     {propInterpolable, "none"},
	"max-height":    {propInterpolable, "none"},
	"top":           {propInterpolable, "auto"},
	"right":         {propInterpolable, "auto"},
	"bottom":        {propInterpolable, "auto"},
	"left":          {propInterpolable, "auto"},
	"margin-top":    {propInterpolable, "0px"},
	"margin-right":  {propInterpolable, "0px"},
	"margin-bottom": {propInterpolable, "0px"},
	"margin-left":   {propInterpolable, "0px"},
	"padding-top":   {propInterpolable, "0px"},
	"padding-right": {propInterpolable, "0px"},
	"padding-bottom": {propInterpolable, "0px"},
	"padding-left":   {propInterpolable, "0px"},
	"border-top-width":    {propInterpolable, "3px"},
	"border-right-width":  {propInterpolable, "3px"},
	"border-bottom-width": {propInterpolable, "3px"},
	"border-left-width":   {propInterpolable, "3px"},
	"border-top-color":    {propInterpolable, "currentcolor"},
	"border-right-color":  {propInterpolable, "currentcolor"},
	"border-bottom-color": {propInterpolable, "currentcolor"},
	"border-left-color":   {propInterpolable, "currentcolor"},
	"border-top-style":    {0, "none"},
	"border-right-style":  {0, "none"},
	"border-bottom-style": {0, "none"},
	"border-left-style":   {0, "none"},
	// logical
	"margin-inline-start":  {propInterpolable | propLogical, "0px"},
	"margin-inline-end":    {propInterpolable | propLogical, "0px"},
	"margin-block-start":   {propInterpolable | propLogical, "0px"},
	"margin-block-end":     {propInterpolable | propLogical, "0px"},
	"padding-inline-start": {propInterpolable | propLogical, "0px"},
	"padding-inline-end":   {propInterpolable | propLogical, "0px"},
	"padding-block-start":  {propInterpolable | propLogical, "0px"},
	"padding-block-end":    {propInterpolable | propLogical, "0px"},
	"inset-inline-start":   {propInterpolable | propLogical, "auto"},
	"inset-inline-end":     {propInterpolable | propLogical, "auto"},
	"inset-block-start":    {propInterpolable | propLogical, "auto"},
	"inset-block-end":      {propInterpolable | propLogical, "auto"},
	"inline-size":          {propInterpolable | propLogical, "auto"},
	"block-size":           {propInterpolable | propLogical, "auto"},
	// visual
	"color":            {propInterpolable | propInherited, "black"},
	"background-color": {propInterpolable | propCompositable | propSnapshot, "transparent"},
	"opacity":          {propInterpolable | propCompositable | propSnapshot, "1"},
	"transform":        {propInterpolable | propCompositable | propSnapshot, "none"},
	"translate":        {propInterpolable | propCompositable | propSnapshot, "none"},
	"rotate":           {propInterpolable | propCompositable | propSnapshot, "none"},
	"scale":            {propInterpolable | propCompositable | propSnapshot, "none"},
	"filter":           {propInterpolable | propCompositable | propSnapshot, "none"},
	"backdrop-filter":  {propInterpolable | propCompositable | propSnapshot, "none"},
	"clip-path":        {propInterpolable | propCompositable, "none"},
	"visibility":       {propInterpolable | propInherited, "visible"},
	"z-index":          {propInterpolable, "auto"},
	"display":          {propAnimationAffecting, "inline"},
	"position":         {0, "static"},
	"float":            {0, "none"},
	// text
	"font-size":      {propInterpolable | propInherited | propAffectsFont, "16px"},
	"font-weight":    {propInterpolable | propInherited | propAffectsFont, "400"},
	"font-family":    {propInherited | propAffectsFont, "serif"},
	"font-style":     {propInherited | propAffectsFont, "normal"},
	"line-height":    {propInterpolable | propInherited, "normal"},
	"letter-spacing": {propInterpolable | propInherited, "normal"},
	"word-spacing":   {propInterpolable | propInherited, "0px"},
	"white-space":    {propInherited, "normal"},
	"zoom":           {propInterpolable, "1"},
	// writing direction
	"direction":            {propInherited | propAnimationAffecting, "ltr"},
	"writing-mode":         {propInherited | propAnimationAffecting, "horizontal-tb"},
	"text-orientation":     {propInherited | propAnimationAffecting, "mixed"},
	"text-combine-upright": {propInherited | propAnimationAffecting, "none"},
	"unicode-bidi":         {propAnimationAffecting, "normal"},
	// containment
	"contain":            {propAnimationAffecting, "none"},
	"container-name":     {propAnimationAffecting, "none"},
	"container-type":     {propAnimationAffecting, "normal"},
	"content-visibility": {propAnimationAffecting, "visible"},
	"will-change":        {propAnimationAffecting, "auto"},
	// animations
	"animation-name":            {propAnimationAffecting, "none"},
	"animation-duration":        {propAnimationAffecting, "0s"},
	"animation-delay":           {propAnimationAffecting, "0s"},
	"animation-iteration-count": {propAnimationAffecting, "1"},
	"animation-direction":       {propAnimationAffecting, "normal"},
	"animation-fill-mode":       {propAnimationAffecting, "none"},
	"animation-play-state":      {propAnimationAffecting, "running"},
	"animation-timing-function": {propAnimationAffecting, "ease"},
	"animation-timeline":        {propAnimationAffecting, "auto"},
	"animation-range-start":     {propAnimationAffecting, "normal"},
	"animation-range-end":       {propAnimationAffecting, "normal"},
	"animation-composition":     {propAnimationAffecting, "replace"},
	"animation":                 {propAnimationAffecting, ""},
	// transitions
	"transition-property":        {propAnimationAffecting, "all"},
	"transition-duration":        {propAnimationAffecting, "0s"},
	"transition-delay":           {propAnimationAffecting, "0s"},
	"transition-timing-function": {propAnimationAffecting, "ease"},
	"transition":                 {propAnimationAffecting, ""},
	// timelines
	"scroll-timeline-name": {0, "none"},
	"scroll-timeline-axis": {0, "block"},
	"view-timeline-name":   {0, "none"},
	"view-timeline-axis":   {0, "block"},
	"view-timeline-inset":  {0, "auto"},
}

func info(name string) propertyInfo {
	return propertyTable[name]
}

// IsInterpolable is true for properties which may be smoothly interpolated.
func IsInterpolable(name string) bool {
	return info(name).flags&propInterpolable != 0
}

// IsInherited returns wether the standard behaviour for a propery is to be
// inherited or not, i.e., a call to retrieve its value will cascade.
func IsInherited(name string) bool {
	return info(name).flags&propInherited != 0
}

// IsCompositableProperty is true for properties which can be animated on
// the compositor.
func IsCompositableProperty(name string) bool {
	return info(name).flags&propCompositable != 0
}

// CompositedPropertyRequiresSnapshot is true for compositable properties
// whose keyframe values have to be snapshotted for the compositor.
func CompositedPropertyRequiresSnapshot(h PropertyHandle) bool {
	return info(h.Name()).flags&propSnapshot != 0
}

// AffectsFont is true for font-affecting properties.
func AffectsFont(name string) bool {
	return info(name).flags&propAffectsFont != 0
}

// IsAnimationAffectingProperty is true for properties which influence
// animations and therefore are not allowed to be animated themselves.
// https://w3.org/TR/web-animations-1/#animating-properties
//
// display is animation-affecting unless displayAnimation is enabled.
func IsAnimationAffectingProperty(name string, displayAnimation bool) bool {
	if name == "display" {
		return !displayAnimation
	}
	return info(name).flags&propAnimationAffecting != 0
}

// IsLogicalProperty is true for direction-aware properties.
func IsLogicalProperty(name string) bool {
	return info(name).flags&propLogical != 0
}

// InitialValue returns the initial value of a standard property.
func InitialValue(name string) Property {
	return info(name).initial
}

var transitionAll []PropertyHandle

// PropertiesForTransitionAll returns all interpolable physical longhands,
// in a stable order. It is the expansion of "transition-property: all".
func PropertiesForTransitionAll() []PropertyHandle {
	if transitionAll == nil {
		names := make([]string, 0, len(propertyTable))
		for name, pi := range propertyTable {
			if pi.flags&propInterpolable != 0 && pi.flags&propLogical == 0 {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		all := make([]PropertyHandle, len(names))
		for i, name := range names {
			all[i] = Handle(name)
		}
		transitionAll = all
	}
	return transitionAll
}
