package normalize

import "strings"

// fullUntenting is the combined loading-method value the source feed sends
// as a single tag; the marketplace models it as two separate methods.
const fullUntenting = "полная растентовка"

// untentingParts are the two method labels fullUntenting expands to.
var untentingParts = [2]string{"верхняя", "боковая"}

// SplitMethods splits the comma-separated loading/unloading method string
// into marketplace method ids. The first tag describes the loading side,
// every later tag the unloading side. fullUntenting expands to both
// untentingParts on whichever side its position assigns it to. Tags absent
// from the dictionaries are dropped.
func SplitMethods(loadingTypes string, loadingDict, unloadingDict map[string]int) (loading []int, unloading []int) {
	loading = make([]int, 0, 2)
	unloading = make([]int, 0, 2)

	for i, tag := range strings.Split(loadingTypes, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}

		if tag == fullUntenting {
			if i == 0 {
				for _, part := range untentingParts {
					if id, ok := loadingDict[part]; ok {
						loading = append(loading, id)
					}
				}
			} else {
				for _, part := range untentingParts {
					if id, ok := unloadingDict[part]; ok {
						unloading = append(unloading, id)
					}
				}
			}
			continue
		}

		if i == 0 {
			if id, ok := loadingDict[tag]; ok {
				loading = append(loading, id)
			}
		} else {
			if id, ok := unloadingDict[tag]; ok {
				unloading = append(unloading, id)
			}
		}
	}

	return loading, unloading
}
