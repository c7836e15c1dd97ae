package analyzer

// systemPrompt frames the model as a manufacturing engineer. It is identical
// for every drawing, so it is sent with a cache breakpoint.
const systemPrompt = "You are an expert manufacturing engineer who analyzes technical drawings."

// analysisPrompt asks for one JSON object describing the part and its
// required manufacturing processes. The model reads the attached PDF directly,
// both its text layer and the drawing itself.
const analysisPrompt = `Analyze the attached technical drawing and determine the following about the part.

**Return a JSON object with these fields:**

1. **complexity_level**: (string) Rate as "Simple", "Moderate", "Complex", or "Very Complex"
2. **type**: (string) Type of part (e.g., "Bracket", "Shaft", "Assembly", "Fastener", "Weldment")
3. **part_name**: (string) The name/description of the part from the drawing
4. **material**: (string) Material specification (e.g., "Steel", "Aluminum", "Stainless Steel")
5. **part_notes**: (string) Any important notes or special requirements

**Binary Manufacturing Process Indicators (0 or 1):**
For each process below, return 1 if the part requires it, 0 if not:

6. **laser_cut**: Does this part require laser cutting?
7. **saw_shear**: Does this part require saw or shear cutting?
8. **break_press**: Does this part require brake press/bending operations?
9. **fab**: Does this part require general fabrication operations?
10. **weld**: Does this part require welding? (look for weld symbols, weldment callouts)
11. **painting**: Does this part require painting/coating? (look for finish callouts)
12. **heat_treat**: Does this part require heat treatment?
13. **plating**: Does this part require plating? (look for "zinc plated", "chrome", etc.)
14. **cnc_machining_turning**: Does this part require CNC machining or turning? (look for tight tolerances, threaded holes, machined features)
15. **metal_rolling**: Does this part require metal rolling?
16. **casting_forging**: Is this a cast or forged part?
17. **tube_bending**: Does this part require tube bending?
18. **metal_spinning**: Does this part require metal spinning?
19. **turret_punch_stamping**: Does this part require turret punch or metal stamping?
20. **press**: Does this part require press operations?
21. **inserts**: Does this part require inserts? (look for threaded inserts, press-fit inserts)

**Analysis Guidelines:**
- Look for weld symbols (triangles, specific weld callouts) to identify welding
- Check material callouts and notes for plating requirements
- Examine dimensions and tolerances - tight tolerances suggest CNC machining
- Look for bend lines, brake symbols for brake press operations
- Check for threaded holes, inserts in the drawing
- Look at the complexity of the geometry to assess the part type
- Check notes section for special processes like heat treatment
- For assemblies, consider the main fabrication process

Return ONLY a valid JSON object with all fields. Do not include any other text.`
