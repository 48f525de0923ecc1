package xmlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

func coreRef(rel string) domain.FileRef {
	return domain.FileRef{Source: "Core", Path: "/data/Core/" + rel, RelPath: rel}
}

func parse(t *testing.T, rel, xml string) []domain.Record {
	t.Helper()
	recs, err := New().ParseFile(coreRef(rel), []byte(xml))
	require.NoError(t, err)
	return recs
}

func TestParser_Defs(t *testing.T) {
	t.Run("extracts defType from the child tag name", func(t *testing.T) {
		recs := parse(t, "Defs/things.xml", `
			<Defs>
				<ThingDef>
					<defName>Wall</defName>
					<label>wall</label>
					<description>A wall.</description>
				</ThingDef>
				<StatDef>
					<defName>Mass</defName>
				</StatDef>
			</Defs>`)

		require.Len(t, recs, 2)
		assert.Equal(t, "ThingDef", recs[0].DefType)
		assert.Equal(t, "Wall", recs[0].DefName)
		assert.Equal(t, "wall", recs[0].Label)
		assert.Equal(t, "A wall.", recs[0].Description)
		assert.Equal(t, domain.KindDef, recs[0].Kind)
		assert.Equal(t, "Core|ThingDef:Wall", recs[0].ID)
		assert.Equal(t, "StatDef", recs[1].DefType)
	})

	t.Run("missing defName yields empty name, not an error", func(t *testing.T) {
		recs := parse(t, "Defs/base.xml", `
			<Defs>
				<ThingDef Abstract="True" Name="BuildingBase">
					<label>building</label>
				</ThingDef>
			</Defs>`)

		require.Len(t, recs, 1)
		assert.Empty(t, recs[0].DefName)
		assert.True(t, recs[0].IsAbstract)
	})

	t.Run("reads ParentName attribute and child", func(t *testing.T) {
		recs := parse(t, "Defs/p.xml", `
			<Defs>
				<ThingDef ParentName="BuildingBase"><defName>A</defName></ThingDef>
				<ThingDef><defName>B</defName><parentName>BuildingBase</parentName></ThingDef>
			</Defs>`)

		require.Len(t, recs, 2)
		assert.Equal(t, "BuildingBase", recs[0].ParentName)
		assert.Equal(t, "BuildingBase", recs[1].ParentName)
	})

	t.Run("abstract child element overrides attribute", func(t *testing.T) {
		recs := parse(t, "Defs/a.xml", `
			<Defs>
				<ThingDef><defName>A</defName><abstract>true</abstract></ThingDef>
				<ThingDef Abstract="False"><defName>B</defName></ThingDef>
			</Defs>`)

		require.Len(t, recs, 2)
		assert.True(t, recs[0].IsAbstract)
		assert.False(t, recs[1].IsAbstract)
	})

	t.Run("flattens nested leaves with dotted paths and indexes", func(t *testing.T) {
		recs := parse(t, "Defs/f.xml", `
			<Defs>
				<ThingDef>
					<defName>Bed</defName>
					<statBases>
						<MarketValue>100</MarketValue>
						<Mass>25</Mass>
					</statBases>
					<comps>
						<li><compClass>CompA</compClass></li>
						<li><compClass>CompB</compClass></li>
					</comps>
				</ThingDef>
			</Defs>`)

		require.Len(t, recs, 1)
		assert.Equal(t, []domain.Field{
			{Key: "statBases.MarketValue", Value: "100"},
			{Key: "statBases.Mass", Value: "25"},
			{Key: "comps.li[0].compClass", Value: "CompA"},
			{Key: "comps.li[1].compClass", Value: "CompB"},
		}, recs[0].Fields)
	})

	t.Run("basic fields are excluded from the flattened list", func(t *testing.T) {
		recs := parse(t, "Defs/b.xml", `
			<Defs>
				<ThingDef>
					<defName>Wall</defName>
					<label>wall</label>
					<bodySize>Small</bodySize>
				</ThingDef>
			</Defs>`)

		require.Len(t, recs, 1)
		assert.Equal(t, []domain.Field{{Key: "bodySize", Value: "Small"}}, recs[0].Fields)
	})

	t.Run("rawXml covers only the record element", func(t *testing.T) {
		recs := parse(t, "Defs/r.xml", `
			<Defs>
				<ThingDef><defName>Wall</defName></ThingDef>
				<ThingDef><defName>Door</defName></ThingDef>
			</Defs>`)

		require.Len(t, recs, 2)
		assert.Contains(t, recs[0].RawXML, "Wall")
		assert.NotContains(t, recs[0].RawXML, "Door")
		assert.NotContains(t, recs[0].RawXML, "<Defs>")
	})

	t.Run("leading byte order mark is tolerated", func(t *testing.T) {
		data := []byte("\xef\xbb\xbf<Defs><ThingDef><defName>Wall</defName></ThingDef></Defs>")

		recs, err := New().ParseFile(coreRef("Defs/bom.xml"), data)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Wall", recs[0].DefName)
	})

	t.Run("malformed xml returns the decoder error", func(t *testing.T) {
		_, err := New().ParseFile(coreRef("Defs/bad.xml"), []byte(`<Defs><ThingDef>`))
		assert.Error(t, err)
	})

	t.Run("unrelated root yields no records and no error", func(t *testing.T) {
		recs, err := New().ParseFile(coreRef("About/About.xml"), []byte(`<ModMetaData><name>x</name></ModMetaData>`))
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestParser_Patches(t *testing.T) {
	t.Run("extracts operations from a Patch root", func(t *testing.T) {
		recs := parse(t, "Patches/tweaks.xml", `
			<Patch>
				<Operation Class="PatchOperationReplace">
					<xpath>/Defs/ThingDef[defName="Wall"]/statBases/MaxHitPoints</xpath>
					<value><MaxHitPoints>400</MaxHitPoints></value>
				</Operation>
				<Operation Class="PatchOperationAdd">
					<xpath>/Defs/ThingDef[defName="Door"]</xpath>
				</Operation>
			</Patch>`)

		require.Len(t, recs, 2)
		assert.Equal(t, domain.KindPatch, recs[0].Kind)
		assert.Equal(t, "PatchOperationReplace", recs[0].OperationType)
		assert.Equal(t, "PatchOperationReplace", recs[0].DefType)
		assert.Equal(t, "tweaks#0001", recs[0].DefName)
		assert.Equal(t, `/Defs/ThingDef[defName="Wall"]/statBases/MaxHitPoints`, recs[0].Selector)
		assert.Equal(t, "tweaks#0002", recs[1].DefName)
	})

	t.Run("collects li operations with a Class attribute", func(t *testing.T) {
		recs := parse(t, "Patches/seq.xml", `
			<Patch>
				<Operation Class="PatchOperationSequence">
					<operations>
						<li Class="PatchOperationAdd"><xpath>/Defs</xpath></li>
						<li Class="PatchOperationRemove"><xpath>/Defs/ThingDef</xpath></li>
					</operations>
				</Operation>
			</Patch>`)

		// The sequence and both nested operations each get a record.
		require.Len(t, recs, 3)
		assert.Equal(t, "PatchOperationSequence", recs[0].OperationType)
		assert.Equal(t, "PatchOperationAdd", recs[1].OperationType)
		assert.Equal(t, "PatchOperationRemove", recs[2].OperationType)
	})

	t.Run("numbers all Operations before li operations", func(t *testing.T) {
		recs := parse(t, "Patches/mixed.xml", `
			<Patch>
				<Operation Class="PatchOperationSequence">
					<operations>
						<li Class="PatchOperationAdd"><xpath>/Defs</xpath></li>
					</operations>
				</Operation>
				<Operation Class="PatchOperationRemove">
					<xpath>/Defs/ThingDef</xpath>
				</Operation>
			</Patch>`)

		require.Len(t, recs, 3)
		assert.Equal(t, "PatchOperationSequence", recs[0].OperationType)
		assert.Equal(t, "mixed#0001", recs[0].DefName)
		assert.Equal(t, "PatchOperationRemove", recs[1].OperationType)
		assert.Equal(t, "mixed#0002", recs[1].DefName)
		assert.Equal(t, "PatchOperationAdd", recs[2].OperationType)
		assert.Equal(t, "mixed#0003", recs[2].DefName)
	})

	t.Run("missing Class defaults to PatchOperation", func(t *testing.T) {
		recs := parse(t, "Patches/bare.xml", `
			<Patch>
				<Operation><xpath>/Defs</xpath></Operation>
			</Patch>`)

		require.Len(t, recs, 1)
		assert.Equal(t, "PatchOperation", recs[0].OperationType)
	})

	t.Run("patches never carry inheritance inputs", func(t *testing.T) {
		recs := parse(t, "Patches/p.xml", `
			<Patch><Operation Class="PatchOperationAdd"><xpath>/Defs</xpath></Operation></Patch>`)

		require.Len(t, recs, 1)
		assert.Empty(t, recs[0].ParentName)
	})
}

func TestPrettyXML(t *testing.T) {
	t.Run("deterministic two-space indentation", func(t *testing.T) {
		recs := parse(t, "Defs/x.xml",
			"<Defs><ThingDef><defName>Wall</defName><statBases><Mass>5</Mass></statBases></ThingDef></Defs>")

		require.Len(t, recs, 1)
		want := "<ThingDef>\n" +
			"  <defName>Wall</defName>\n" +
			"  <statBases>\n" +
			"    <Mass>5</Mass>\n" +
			"  </statBases>\n" +
			"</ThingDef>\n"
		assert.Equal(t, want, recs[0].RawXML)
	})

	t.Run("escapes markup in values", func(t *testing.T) {
		recs := parse(t, "Defs/esc.xml",
			`<Defs><ThingDef><defName>Esc</defName><note>a &lt;b&gt; &amp; "c"</note></ThingDef></Defs>`)

		require.Len(t, recs, 1)
		assert.Contains(t, recs[0].RawXML, "a &lt;b&gt; &amp; &quot;c&quot;")
	})
}
