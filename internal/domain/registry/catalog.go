package registry

import "eud4xr-bridge/internal/domain/model"

type typeBuilder struct {
	t VirtualObjectType
}

func define(name, description string) *typeBuilder {
	return &typeBuilder{t: VirtualObjectType{Name: name, Description: description}}
}

func (b *typeBuilder) props(ps ...Property) *typeBuilder {
	b.t.Properties = append(b.t.Properties, ps...)
	return b
}

func (b *typeBuilder) action(verb string, params ...Param) *typeBuilder {
	b.t.Actions = append(b.t.Actions, ActionDefinition{Verb: verb, Method: MethodName(verb, ""), Params: params})
	return b
}

func (b *typeBuilder) variable(verb, variable, modifier string, params ...Param) *typeBuilder {
	b.t.Actions = append(b.t.Actions, ActionDefinition{
		Verb: verb, Variable: variable, Modifier: modifier,
		Method: MethodName(verb, variable), Params: params,
	})
	return b
}

// passive declares an action the object undergoes; its first parameter is the actor.
func (b *typeBuilder) passive(verb string, actor Param) *typeBuilder {
	b.t.Actions = append(b.t.Actions, ActionDefinition{
		Verb: verb, Method: MethodName(verb, ""), Passive: true, Params: []Param{actor},
	})
	return b
}

func (b *typeBuilder) build() *VirtualObjectType {
	t := b.t
	return &t
}

func prop(name string, kind ParamKind) Property { return Property{Name: name, Kind: kind} }

func tracked(name, tracker string) Property {
	return Property{Name: name, Kind: KindBoolean, Tracker: tracker}
}

func arg(name string, kind ParamKind) Param { return Param{Name: name, Kind: kind} }

func ref(name, typeName string) Param { return Param{Name: name, Kind: KindEntity, TypeRef: typeName} }

func listOf(name string, elem Param) Param { return Param{Name: name, Kind: KindList, Elem: &elem} }

var positionPath = listOf("p", arg("p", KindPosition))

// locomotion adds the "<verb> to" / "<verb> on" pair of a movement verb.
func (b *typeBuilder) locomotion(verbs ...string) *typeBuilder {
	for _, v := range verbs {
		b.action(v+" to", arg("p", KindPosition)).action(v+" on", positionPath)
	}
	return b
}

// Catalog returns the built-in virtual object types in declaration order.
// Declaration order is resolution order.
func Catalog() []*VirtualObjectType {
	return []*VirtualObjectType{
		define("Behaviour", "Base component enabling behaviours such as Toggle or Switch on a game object.").build(),
		define("ECAObject", "Base virtual object with position, rotation, scale, visibility and activity.").
			props(
				prop("position", KindPosition), prop("rotation", KindRotation), prop("scale", KindScale),
				prop("visible", KindBoolean), prop("active", KindBoolean),
				tracked("isInsideCamera", model.TrackerFramed),
			).
			action("moves to", arg("newPos", KindPosition)).
			action("moves on", listOf("path", arg("p", KindPosition))).
			action("rotates around", arg("newRot", KindRotation)).
			action("looks at", arg("o", KindObject)).
			action("scales to", arg("newScale", KindScale)).
			action("restores original settings").
			action("shows").
			action("hides").
			action("activates").
			action("deactivates").
			variable("changes", "visible", "to", arg("yesNo", KindBoolean)).
			variable("changes", "active", "to", arg("yesNo", KindBoolean)).
			build(),
		define("Interactable", "Object a character can interact with.").build(),
		define("Character", "Virtual character that can interact with objects, jump and animate.").
			props(prop("life", KindNumber), prop("playing", KindBoolean)).
			action("interacts with", ref("o", "Interactable")).
			action("stops-interacting with", ref("o", "Interactable")).
			action("points to", ref("o", "ECAObject")).
			action("stops-pointing to", ref("o", "ECAObject")).
			action("jumps to", arg("p", KindPosition)).
			action("jumps on", positionPath).
			action("starts-animation", arg("s", KindString)).
			build(),
		define("Vehicle", "Something that can transport characters.").
			props(prop("speed", KindNumber), prop("on", KindBoolean)).
			action("starts").
			action("steers-at", arg("angle", KindNumber)).
			action("accelerates-by", arg("f", KindNumber)).
			action("slows-by", arg("f", KindNumber)).
			action("stops").
			build(),
		define("AirVehicle", "Vehicle that flies.").
			action("takes-off", arg("p", KindPosition)).
			action("lands", arg("p", KindPosition)).
			build(),
		define("LandVehicle", "Vehicle that drives on land.").build(),
		define("SeaVehicle", "Vehicle that sails.").build(),
		define("SpaceVehicle", "Vehicle that travels in space.").
			props(prop("oxygen", KindNumber), prop("gravity", KindNumber)).
			action("takes-off", arg("p", KindPosition)).
			action("lands", arg("p", KindPosition)).
			build(),
		define("Scene", "A scene of the virtual environment.").
			props(prop("name", KindString), prop("position", KindPosition)).
			action("teleports to").
			build(),
		define("Prop", "Generic object with a price.").
			props(prop("price", KindNumber)).
			build(),
		define("Clothing", "Garment that can be worn by a character.").
			props(prop("brand", KindString), prop("color", KindDict), prop("size", KindString), prop("weared", KindBoolean)).
			passive("wears", ref("c", "Character")).
			passive("unwears", ref("c", "Character")).
			build(),
		define("Electronic", "Electronic appliance that can be turned on and off.").
			props(prop("brand", KindString), prop("model", KindString), prop("on", KindBoolean)).
			action("turns", arg("on", KindBoolean)).
			build(),
		define("Food", "Something that can be eaten.").
			props(prop("weight", KindNumber), prop("expiration", KindString), prop("description", KindString), prop("eaten", KindBoolean)).
			passive("eats", ref("c", "Character")).
			build(),
		define("Weapon", "Generic weapon.").
			props(prop("power", KindNumber)).
			build(),
		define("Bullet", "Projectile fired by a firearm.").
			props(prop("speed", KindNumber)).
			build(),
		define("EdgedWeapon", "Weapon with a blade.").
			action("stabs", ref("obj", "ECAObject")).
			action("slices", ref("obj", "ECAObject")).
			build(),
		define("Firearm", "Weapon that fires bullets.").
			props(prop("charge", KindInteger)).
			action("recharges", arg("charge", KindInteger)).
			action("fires", ref("obj", "ECAObject")).
			action("aims", ref("obj", "ECAObject")).
			build(),
		define("Shield", "Protection against weapons.").
			action("blocks", ref("weapon", "Weapon")).
			build(),
		define("Interaction", "Base for interaction elements.").build(),
		define("Button", "Button that can be pushed by a character.").
			passive("pushes", ref("c", "Character")).
			build(),
		define("ECACamera", "Camera with a point of view and zoom.").
			props(prop("pov", KindString), prop("zoomLevel", KindNumber), prop("playing", KindBoolean)).
			action("zooms-in", arg("amount", KindNumber)).
			action("zooms-out", arg("amount", KindNumber)).
			variable("changes", "POV", "to", arg("pov", KindString)).
			build(),
		define("ECADoor", "Door that can be opened and closed.").
			action("opens").
			action("closes").
			build(),
		define("ECALight", "Light source with intensity and color.").
			props(prop("intensity", KindNumber), prop("maxIntensity", KindNumber), prop("color", KindDict), prop("on", KindBoolean)).
			action("turns", arg("newStatus", KindBoolean)).
			variable("increases", "intensity", "by", arg("amount", KindNumber)).
			variable("decreases", "intensity", "by", arg("amount", KindNumber)).
			variable("sets", "intensity", "to", arg("i", KindNumber)).
			variable("changes", "color", "to", arg("inputColor", KindColor)).
			build(),
		define("ECAVideo", "Video player.").
			props(
				prop("source", KindString), prop("volume", KindNumber), prop("maxVolume", KindNumber),
				prop("playing", KindBoolean), prop("paused", KindBoolean), prop("stopped", KindBoolean),
			).
			action("plays").
			action("pauses").
			action("stops").
			variable("changes", "volume", "to", arg("v", KindNumber)).
			variable("changes", "source", "to", arg("newSource", KindString)).
			build(),
		define("Environment", "Static environment element.").build(),
		define("Artwork", "Piece of art.").
			props(prop("author", KindString), prop("price", KindNumber), prop("year", KindInteger)).
			build(),
		define("Building", "Building of the environment.").build(),
		define("Exterior", "Exterior element of the environment.").build(),
		define("Furniture", "Piece of furniture.").
			props(prop("price", KindNumber), prop("color", KindDict), prop("dimension", KindNumber)).
			build(),
		define("Terrain", "Terrain of the environment.").build(),
		define("Vegetation", "Vegetation of the environment.").build(),
		define("Sky", "Sky of the environment.").build(),
		define("Animal", "Generic animal.").
			action("speaks", arg("s", KindString)).
			build(),
		define("AquaticAnimal", "Animal living in water.").locomotion("swims").build(),
		define("Creature", "Fantastic creature.").locomotion("flies", "runs", "swims", "walks").build(),
		define("FlyingAnimal", "Animal that flies.").locomotion("flies", "walks").build(),
		define("Human", "Human character.").locomotion("runs", "swims", "walks").build(),
		define("Mannequin", "Mannequin that clothes can be placed on.").build(),
		define("Robot", "Robot character.").locomotion("runs", "swims", "walks").build(),
		define("TerrestrialAnimal", "Animal living on land.").locomotion("runs", "walks").build(),
		define("Collectable", "Object that can be collected.").build(),
		define("Container", "Object that holds other objects.").
			props(prop("capacity", KindInteger), prop("objectsCount", KindInteger)).
			action("inserts", arg("o", KindObject)).
			action("removes", arg("o", KindObject)).
			action("empties").
			build(),
		define("Counter", "Numeric counter.").
			props(prop("count", KindNumber)).
			variable("changes", "count", "to", arg("amount", KindNumber)).
			build(),
		define("Highlight", "Highlight effect around an object.").
			props(prop("color", KindDict), prop("on", KindBoolean)).
			variable("changes", "color", "to", arg("c", KindDict)).
			action("turns", arg("on", KindBoolean)).
			build(),
		define("Keypad", "Keypad accepting a key code.").
			props(prop("keycode", KindString), prop("input", KindString)).
			action("inserts", arg("input", KindString)).
			action("adds", arg("input", KindString)).
			action("resets").
			build(),
		define("Lock", "Lock that can be opened and closed.").
			props(prop("locked", KindBoolean)).
			action("opens").
			action("closes").
			build(),
		define("Particle", "Particle system.").
			props(prop("on", KindBoolean)).
			action("turns", arg("on", KindBoolean)).
			build(),
		define("Placeholder", "Placeholder showing a mesh.").
			props(prop("mesh", KindDict)).
			variable("changes", "mesh", "to", arg("meshName", KindString)).
			build(),
		define("Sound", "Sound player.").
			props(
				prop("source", KindString), prop("volume", KindNumber), prop("maxVolume", KindNumber),
				prop("currentTime", KindNumber), prop("playing", KindBoolean), prop("paused", KindBoolean),
				prop("stopped", KindBoolean),
			).
			action("plays").
			action("pauses").
			action("stops").
			variable("changes", "volume", "to", arg("v", KindNumber)).
			variable("changes", "source", "to", arg("newSource", KindString)).
			build(),
		define("Switch", "Switch that can be turned on and off.").
			props(prop("on", KindBoolean)).
			action("turns", arg("on", KindBoolean)).
			build(),
		define("Timer", "Countdown timer.").
			props(prop("duration", KindNumber), prop("current_time", KindNumber)).
			variable("changes", "duration", "to", arg("amount", KindNumber)).
			variable("changes", "current-time", "to", arg("amount", KindNumber)).
			action("starts").
			action("stops").
			action("pauses").
			action("reaches", arg("seconds", KindInteger)).
			action("resets").
			build(),
		define("Transition", "Transition to another scene.").
			props(prop("reference", KindString)).
			action("teleports to", ref("reference", "Scene")).
			build(),
		define("Trigger", "Element that fires an action.").
			action("triggers", arg("action", KindDict)).
			build(),
		define("ClothingCategories", "Clothing category marker.").build(),
		define("POV", "Point of view marker.").build(),
		define("ECAXRPointer", "Pointable XR element.").
			props(tracked("isPointed", model.TrackerPointed)).
			build(),
		define("ECAXRInteractable", "Interactable XR element.").
			props(tracked("isInteracted", model.TrackerInteracted)).
			build(),
	}
}
